package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/models"
)

// Editable fields of a Draft.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldLocation    = "location"
	FieldImageURL    = "image_url"
)

// Updater is the part of MemoryService a Draft saves through.
type Updater interface {
	Update(ctx context.Context, id, secret string, p models.MemoryPatch) (models.Memory, error)
}

// Draft is a scratch copy of a memory. Changes stay local until Save; Reset
// discards them. The error of the last failed save is kept until the next
// save attempt or Reset.
type Draft struct {
	original models.Memory
	edited   models.Memory
	err      error
}

func BeginEdit(m models.Memory) *Draft {
	return &Draft{original: m, edited: m}
}

func (d *Draft) Memory() models.Memory {
	return d.edited
}

func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldTitle:
		d.edited.Title = value
	case FieldDescription:
		d.edited.Description = value
	case FieldDate:
		d.edited.Date = value
	case FieldLocation:
		d.edited.Location = value
	case FieldImageURL:
		d.edited.ImageURL = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// Changes is the patch Save would send.
func (d *Draft) Changes() models.MemoryPatch {
	return models.Diff(d.original, d.edited)
}

func (d *Draft) Dirty() bool {
	return !d.Changes().IsEmpty()
}

func (d *Draft) Reset() {
	d.edited = d.original
	d.err = nil
}

func (d *Draft) Err() error {
	return d.err
}

// Save sends the changed fields. On success the stored record becomes the
// new baseline; on failure the edits are kept so the user can retry.
func (d *Draft) Save(ctx context.Context, u Updater, secret string) (models.Memory, error) {
	d.err = nil

	p := d.Changes()
	if p.IsEmpty() {
		return d.original, nil
	}

	m, err := u.Update(ctx, d.original.ID, secret, p)
	if err != nil {
		d.err = err
		return models.Memory{}, err
	}

	d.original, d.edited = m, m
	return m, nil
}
