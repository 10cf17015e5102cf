package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/server/assets"
	"github.com/dmitrijs2005/memorylane/internal/server/auth"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/memories"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/users"
	"github.com/dmitrijs2005/memorylane/internal/server/validation"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
	"github.com/google/uuid"
)

// DefaultMaxUploadSize caps image uploads when no limit is configured.
const DefaultMaxUploadSize = 10 << 20

// Upload is an image attached to a create request or sent on its own.
type Upload struct {
	Name        string
	Body        io.Reader
	Size        int64
	ContentType string
}

// TimelineView is everything the timeline page renders for one user.
type TimelineView struct {
	User   models.User          `json:"user"`
	View   viewstate.ViewState  `json:"view"`
	Count  int                  `json:"count"`
	Groups []timeline.YearGroup `json:"groups"`
}

type MemoryService struct {
	memories      memories.Repository
	users         users.Repository
	assets        assets.Store
	gate          *auth.SecretGate
	validator     *validation.Validator
	pipeline      *timeline.Pipeline
	now           func() time.Time
	newID         func() string
	maxUploadSize int64
}

func NewMemoryService(m memories.Repository, u users.Repository, a assets.Store, gate *auth.SecretGate, p *timeline.Pipeline, maxUploadSize int64) *MemoryService {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &MemoryService{
		memories:      m,
		users:         u,
		assets:        a,
		gate:          gate,
		validator:     validation.New(),
		pipeline:      p,
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
		maxUploadSize: maxUploadSize,
	}
}

// MaxUploadSize is the largest accepted image in bytes.
func (s *MemoryService) MaxUploadSize() int64 {
	return s.maxUploadSize
}

// List returns the user's memories filtered and sorted by the store.
func (s *MemoryService) List(ctx context.Context, userID string, vs viewstate.ViewState, limit, offset int) ([]models.Memory, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	if limit < 0 || offset < 0 {
		return nil, validation.Invalid("limit", "GTE", "Must be greater than or equal to 0")
	}

	list, err := s.memories.ListByUser(ctx, userID, memories.ListOptions{
		Filter: vs.Filter,
		Sort:   vs.Sort,
		Limit:  limit,
		Offset: offset,
		Now:    s.now().In(s.pipeline.Location()),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing memories: %w", err)
	}
	return list, nil
}

// Timeline fetches the full list once and runs the pipeline over it.
func (s *MemoryService) Timeline(ctx context.Context, userID string, vs viewstate.ViewState) (*TimelineView, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	records, err := s.memories.ListByUser(ctx, userID, memories.ListOptions{
		Filter: viewstate.FilterAll,
		Sort:   viewstate.SortNewest,
		Now:    s.now().In(s.pipeline.Location()),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing memories: %w", err)
	}

	return &TimelineView{
		User:   *user,
		View:   vs,
		Count:  s.pipeline.Count(records, vs),
		Groups: s.pipeline.Transform(records, vs),
	}, nil
}

func (s *MemoryService) Get(ctx context.Context, id string) (*models.Memory, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m, err := s.memories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting memory: %w", err)
	}
	return m, nil
}

// Create validates the input, checks the secret and the owner, uploads the
// image if any and only then inserts the record.
func (s *MemoryService) Create(ctx context.Context, userID, secret string, in validation.MemoryInput, image *Upload) (*models.Memory, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := s.gate.Check(secret); err != nil {
		return nil, err
	}

	if err := checkID(userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	m := in.Memory(userID)
	m.ID = s.newID()

	if image != nil {
		url, err := s.upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		m.ImageURL = url
	}

	if err := s.memories.Create(ctx, &m); err != nil {
		return nil, fmt.Errorf("error creating memory: %w", err)
	}

	m.Normalize()
	return &m, nil
}

// Update applies a partial edit. Ownership cannot change.
func (s *MemoryService) Update(ctx context.Context, id, secret string, in validation.PatchInput) (*models.Memory, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := s.gate.Check(secret); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	m, err := s.memories.Update(ctx, id, in.Patch())
	if err != nil {
		return nil, fmt.Errorf("error updating memory: %w", err)
	}
	return m, nil
}

func (s *MemoryService) Delete(ctx context.Context, id, secret string) error {
	if err := s.gate.Check(secret); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.memories.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting memory: %w", err)
	}
	return nil
}

// UploadImage stores an image without creating a memory and returns its URL.
func (s *MemoryService) UploadImage(ctx context.Context, secret string, image Upload) (string, error) {
	if err := s.gate.Check(secret); err != nil {
		return "", err
	}
	return s.upload(ctx, image)
}

func (s *MemoryService) upload(ctx context.Context, image Upload) (string, error) {
	if image.Body == nil || strings.TrimSpace(image.Name) == "" {
		return "", validation.Invalid("image", "REQUIRED", "This field is required")
	}
	if image.Size > s.maxUploadSize {
		return "", validation.Invalid("image", "MAX", fmt.Sprintf("Must be at most %d bytes", s.maxUploadSize))
	}
	if image.ContentType != "" && !strings.HasPrefix(image.ContentType, "image/") {
		return "", validation.Invalid("image", "IMAGE", "Must be an image")
	}

	url, err := s.assets.Upload(ctx, image.Name, image.Body, image.Size, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}
	return url, nil
}

// checkID rejects ids that cannot exist so they never reach the store,
// where Postgres would fail on the uuid cast.
func checkID(id string) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	return nil
}
