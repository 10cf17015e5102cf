package supabasestore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/memories"
	"github.com/supabase-community/postgrest-go"
)

// MemoryRepository is a memories.Repository backed by PostgREST. The client
// library does not take a context, so ctx only gates the call.
type MemoryRepository struct {
	q Querier
}

var _ memories.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(q Querier) *MemoryRepository {
	return &MemoryRepository{q: q}
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, opts memories.ListOptions) ([]models.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := r.q.From(memoriesTable).Select(memoryColumns, "", false).Eq("user_id", userID)

	if from, to, ok := opts.YearRange(); ok {
		// Filters are keyed by column, so the upper bound goes through "or".
		f = f.Gte(effectiveDateColumn, from).Or(effectiveDateColumn+".lt."+to, "")
	}

	f = f.Order(effectiveDateColumn, &postgrest.OrderOpts{Ascending: opts.Ascending()}).
		Order("created_at", &postgrest.OrderOpts{Ascending: true})

	switch {
	case opts.Limit > 0:
		f = f.Range(opts.Offset, opts.Offset+opts.Limit-1, "")
	case opts.Offset > 0:
		f = f.Range(opts.Offset, maxRangeEnd, "")
	}

	var rows []memoryRow
	if _, err := f.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("failed to select memories: %w", err)
	}

	result := make([]models.Memory, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result, nil
}

const maxRangeEnd = 1<<31 - 1

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []memoryRow
	_, err := r.q.From(memoriesTable).Select(memoryColumns, "", false).Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase error: %w", err)
	}
	return first(rows)
}

func (r *MemoryRepository) Create(ctx context.Context, m *models.Memory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []memoryRow
	_, err := r.q.From(memoriesTable).
		Insert(newInsertRow(m), false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("supabase error: %w", err)
	}
	if len(rows) > 0 {
		m.CreatedAt = rows[0].CreatedAt
	}
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, patch models.MemoryPatch) (*models.Memory, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []memoryRow
	_, err := r.q.From(memoriesTable).
		Update(patchBody(patch), "representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase error: %w", err)
	}
	return first(rows)
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []memoryRow
	_, err := r.q.From(memoriesTable).Delete("representation", "").Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("supabase error: %w", err)
	}
	if len(rows) == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func first(rows []memoryRow) (*models.Memory, error) {
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	m := rows[0].toModel()
	return &m, nil
}
