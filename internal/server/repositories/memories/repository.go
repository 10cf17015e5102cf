// Package memories defines the memory record store and its PostgreSQL
// implementation.
package memories

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

// Repository is the record store contract. Missing ids are reported as
// common.ErrorNotFound.
type Repository interface {
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]models.Memory, error)
	GetByID(ctx context.Context, id string) (*models.Memory, error)
	Create(ctx context.Context, m *models.Memory) error
	Update(ctx context.Context, id string, patch models.MemoryPatch) (*models.Memory, error)
	Delete(ctx context.Context, id string) error
}

// ListOptions asks the store to pre-filter and order the list. The
// semantics must match the timeline package: a year filter keeps dates in
// [{year}-01-01, {year+1}-01-01) and the sort is by date, newest first
// unless SortOldest is given.
type ListOptions struct {
	Filter viewstate.Filter
	Sort   viewstate.Sort
	Limit  int
	Offset int
	// Now is the reference time for thisYear/lastYear.
	Now time.Time
}

// YearRange returns the half-open date range selected by the filter, as
// "YYYY-MM-DD" strings. ok is false for FilterAll.
func (o ListOptions) YearRange() (from, to string, ok bool) {
	year := o.Now.Year()
	switch o.Filter {
	case viewstate.FilterThisYear:
	case viewstate.FilterLastYear:
		year--
	default:
		return "", "", false
	}
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1), true
}

// Ascending reports whether the list is ordered oldest first.
func (o ListOptions) Ascending() bool {
	return o.Sort == viewstate.SortOldest
}
