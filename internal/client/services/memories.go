// Package services holds the CLI's use cases: the once-fetched memory list
// with its local timeline, profile lookup, and edit drafts.
package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/memorylane/internal/client/client"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

// View is one rendering of the timeline. Count is the number of memories
// that passed the filter; Total is the size of the fetched list.
type View struct {
	State  viewstate.ViewState
	Groups []timeline.YearGroup
	Count  int
	Total  int
}

type MemoryService interface {
	Refresh(ctx context.Context, userID string) error
	Loaded() bool
	View(vs viewstate.ViewState) View
	Find(id string) (models.Memory, bool)
	Create(ctx context.Context, userID, secret string, in client.NewMemory) (models.Memory, error)
	Update(ctx context.Context, id, secret string, p models.MemoryPatch) (models.Memory, error)
	Delete(ctx context.Context, id, secret string) error
}

type memoryService struct {
	client   client.Client
	pipeline *timeline.Pipeline

	userID  string
	records []models.Memory
	loaded  bool
}

func NewMemoryService(c client.Client, p *timeline.Pipeline) MemoryService {
	return &memoryService{client: c, pipeline: p}
}

// Refresh replaces the local list with the user's memories from the
// service. On error the previous list is kept.
func (s *memoryService) Refresh(ctx context.Context, userID string) error {
	list, err := s.client.ListMemories(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch memories: %w", err)
	}
	s.userID, s.records, s.loaded = userID, list, true
	return nil
}

func (s *memoryService) Loaded() bool {
	return s.loaded
}

func (s *memoryService) View(vs viewstate.ViewState) View {
	return View{
		State:  vs,
		Groups: s.pipeline.Transform(s.records, vs),
		Count:  s.pipeline.Count(s.records, vs),
		Total:  len(s.records),
	}
}

func (s *memoryService) Find(id string) (models.Memory, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Memory{}, false
	}
	return s.records[i], true
}

func (s *memoryService) index(id string) int {
	return slices.IndexFunc(s.records, func(m models.Memory) bool { return m.ID == id })
}

// Create stores a new memory and adds it to the local list when it
// belongs to the loaded user.
func (s *memoryService) Create(ctx context.Context, userID, secret string, in client.NewMemory) (models.Memory, error) {
	m, err := s.client.CreateMemory(ctx, userID, secret, in)
	if err != nil {
		return models.Memory{}, err
	}
	m.Normalize()
	if s.loaded && userID == s.userID {
		s.records = append(slices.Clone(s.records), m)
	}
	return m, nil
}

func (s *memoryService) Update(ctx context.Context, id, secret string, p models.MemoryPatch) (models.Memory, error) {
	m, err := s.client.UpdateMemory(ctx, id, secret, p)
	if err != nil {
		return models.Memory{}, err
	}
	m.Normalize()
	if i := s.index(id); i >= 0 {
		records := slices.Clone(s.records)
		records[i] = m
		s.records = records
	}
	return m, nil
}

func (s *memoryService) Delete(ctx context.Context, id, secret string) error {
	if err := s.client.DeleteMemory(ctx, id, secret); err != nil {
		return err
	}
	if i := s.index(id); i >= 0 {
		s.records = slices.Delete(slices.Clone(s.records), i, i+1)
	}
	return nil
}
