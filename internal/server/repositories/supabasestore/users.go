package supabasestore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/users"
	"github.com/supabase-community/postgrest-go"
)

// UserRepository is a users.Repository backed by PostgREST. Memory counts
// come from an embedded aggregate on the memories relation.
type UserRepository struct {
	q Querier
}

var _ users.Repository = (*UserRepository)(nil)

func NewUserRepository(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

const userColumns = "id,name,avatar,bio,memories(count)"

type userRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Memories []struct {
		Count int `json:"count"`
	} `json:"memories"`
}

func (r userRow) toModel() models.User {
	u := models.User{ID: r.ID, Name: r.Name, Avatar: deref(r.Avatar), Bio: deref(r.Bio)}
	if len(r.Memories) > 0 {
		u.MemoryCount = r.Memories[0].Count
	}
	return u
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []userRow
	_, err := r.q.From(usersTable).Select(userColumns, "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}

	result := make([]models.User, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []userRow
	_, err := r.q.From(usersTable).Select(userColumns, "", false).Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase error: %w", err)
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	u := rows[0].toModel()
	return &u, nil
}

// CountMemories asks PostgREST for an exact count without fetching rows.
func (r *UserRepository) CountMemories(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	_, count, err := r.q.From(memoriesTable).Select("id", "exact", true).Eq("user_id", userID).Execute()
	if err != nil {
		return 0, fmt.Errorf("supabase error: %w", err)
	}
	return int(count), nil
}
