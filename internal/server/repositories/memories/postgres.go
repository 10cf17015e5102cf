package memories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/dbx"
	"github.com/dmitrijs2005/memorylane/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// effectiveDate is the generated column holding date, or the UTC creation
// day when date is NULL. It matches models.Memory.Normalize.
const effectiveDate = `effective_date`

const selectColumns = `id, user_id, title, description, COALESCE(date::text, ''),
		COALESCE(location, ''), COALESCE(image_url, ''), created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMemory(s scanner) (*models.Memory, error) {
	var m models.Memory
	if err := s.Scan(&m.ID, &m.UserID, &m.Title, &m.Description, &m.Date,
		&m.Location, &m.ImageURL, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Normalize()
	return &m, nil
}

// ListByUser returns the memories of userID, filtered and ordered by opts.
// Equal dates are ordered by creation time so the result is stable.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]models.Memory, error) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(`SELECT ` + selectColumns + ` FROM memories WHERE user_id = $1`)

	if from, to, ok := opts.YearRange(); ok {
		args = append(args, from, to)
		fmt.Fprintf(&sb, ` AND %s >= $%d AND %s < $%d`, effectiveDate, len(args)-1, effectiveDate, len(args))
	}

	direction := "DESC"
	if opts.Ascending() {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, created_at ASC`, effectiveDate, direction)

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select memories: %w", err)
	}
	defer rows.Close()

	result := make([]models.Memory, 0)
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory row: %w", err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memory rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Memory, error) {
	query := `SELECT ` + selectColumns + ` FROM memories WHERE id = $1`

	m, err := scanMemory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Create inserts m. The id is assigned by the caller; created_at is filled
// in from the database.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Memory) error {
	query := `
		INSERT INTO memories (id, user_id, title, description, date, location, image_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.UserID, m.Title, m.Description, m.Date, m.Location, m.ImageURL).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update applies patch to the memory and returns the stored result. An
// empty patch is a plain read.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.MemoryPatch) (*models.Memory, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	args := []any{id}
	var sets []string
	set := func(column, expr string, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = %s", column, strings.ReplaceAll(expr, "?", fmt.Sprintf("$%d", len(args)))))
	}

	if patch.Title != nil {
		set("title", "?", *patch.Title)
	}
	if patch.Description != nil {
		set("description", "?", *patch.Description)
	}
	if patch.Date != nil {
		set("date", "NULLIF(?, '')::date", *patch.Date)
	}
	if patch.Location != nil {
		set("location", "NULLIF(?, '')", *patch.Location)
	}
	if patch.ImageURL != nil {
		set("image_url", "NULLIF(?, '')", *patch.ImageURL)
	}

	query := `UPDATE memories SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + selectColumns

	m, err := scanMemory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Delete removes the memory. Deleting an unknown id returns
// common.ErrorNotFound and changes nothing.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
