// Package supabasestore implements the memory and user repositories on top
// of a Supabase project through its PostgREST endpoint.
package supabasestore

import (
	"time"

	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/supabase-community/postgrest-go"
)

// Querier is the part of *supabase.Client (and *postgrest.Client) the
// repositories use.
type Querier interface {
	From(table string) *postgrest.QueryBuilder
}

const (
	memoriesTable = "memories"
	usersTable    = "users"

	memoryColumns = "id,user_id,title,description,date,location,image_url,created_at"

	// effectiveDateColumn is generated by the schema migrations: date, or
	// the UTC creation day when date is NULL.
	effectiveDateColumn = "effective_date"
)

type memoryRow struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        *string   `json:"date"`
	Location    *string   `json:"location"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r memoryRow) toModel() models.Memory {
	m := models.Memory{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: deref(r.Description),
		Date:        deref(r.Date),
		Location:    deref(r.Location),
		ImageURL:    deref(r.ImageURL),
		CreatedAt:   r.CreatedAt,
	}
	m.Normalize()
	return m
}

type insertRow struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"image_url"`
}

func newInsertRow(m *models.Memory) insertRow {
	return insertRow{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Date:        nullable(m.Date),
		Location:    nullable(m.Location),
		ImageURL:    nullable(m.ImageURL),
	}
}

// patchBody turns a MemoryPatch into the JSON object sent to PostgREST.
// Empty optional values are written as NULL.
func patchBody(p models.MemoryPatch) map[string]any {
	body := make(map[string]any)
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Date != nil {
		body["date"] = nullable(*p.Date)
	}
	if p.Location != nil {
		body["location"] = nullable(*p.Location)
	}
	if p.ImageURL != nil {
		body["image_url"] = nullable(*p.ImageURL)
	}
	return body
}
