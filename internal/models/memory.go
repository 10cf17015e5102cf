// Package models holds the records shared by the server, the CLI and the
// timeline pipeline.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
)

// Memory is a single dated entry owned by one user. UserID never changes
// after creation.
type Memory struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	// Date is the calendar date as stored, usually "2006-01-02". It is kept
	// as text so that a malformed value survives the round trip and can be
	// handled explicitly by the timeline.
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Normalize applies the read-side defaults: a blank location becomes
// "Unknown" and a missing date falls back to the UTC day of CreatedAt, the
// value the stores filter and order on.
func (m *Memory) Normalize() {
	if strings.TrimSpace(m.Location) == "" {
		m.Location = common.UnknownLocation
	}
	if strings.TrimSpace(m.Date) == "" && !m.CreatedAt.IsZero() {
		m.Date = m.CreatedAt.UTC().Format(time.DateOnly)
	}
}

// MemoryPatch is a partial update. Nil fields are left untouched.
type MemoryPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p MemoryPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil && p.ImageURL == nil
}

// Apply copies the set fields of p onto m.
func (p MemoryPatch) Apply(m *Memory) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
}

// Diff returns the patch that turns from into to. Identity fields are
// ignored.
func Diff(from, to Memory) MemoryPatch {
	var p MemoryPatch
	if from.Title != to.Title {
		p.Title = &to.Title
	}
	if from.Description != to.Description {
		p.Description = &to.Description
	}
	if from.Date != to.Date {
		p.Date = &to.Date
	}
	if from.Location != to.Location {
		p.Location = &to.Location
	}
	if from.ImageURL != to.ImageURL {
		p.ImageURL = &to.ImageURL
	}
	return p
}
