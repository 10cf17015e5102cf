package memories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

var columns = []string{"id", "user_id", "title", "description", "date", "location", "image_url", "created_at"}

var created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestListByUser_AllNewest(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("m2", "u1", "Xmas", "Snow and lights", "2024-12-25", "", "", created).
		AddRow("m1", "u1", "Beach", "Sunny day", "2023-06-01", "Jurmala", "http://img/1.jpg", created)

	mock.ExpectQuery(`(?s)^SELECT .* FROM memories WHERE user_id = \$1 ORDER BY effective_date DESC, created_at ASC$`).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1", ListOptions{Filter: viewstate.FilterAll, Sort: viewstate.SortNewest})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "Unknown", got[0].Location)
	assert.Equal(t, "", got[0].ImageURL)
	assert.Equal(t, "Jurmala", got[1].Location)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_YearFilterOldestWithPaging(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE user_id = \$1 AND effective_date >= \$2 AND effective_date < \$3 ORDER BY .* ASC, created_at ASC LIMIT \$4 OFFSET \$5$`).
		WithArgs("u1", "2023-01-01", "2024-01-01", 10, 20).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListByUser(context.Background(), "u1", ListOptions{
		Filter: viewstate.FilterLastYear,
		Sort:   viewstate.SortOldest,
		Limit:  10,
		Offset: 20,
		Now:    time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("db down"))

	_, err := repo.ListByUser(context.Background(), "u1", ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select memories")
}

func TestListByUser_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).AddRow("m1", "u1", "t", "d", "2024-01-01", "", "", "not-a-time")
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	_, err := repo.ListByUser(context.Background(), "u1", ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan memory row")
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT .* FROM memories WHERE id = \$1$`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("m1", "u1", "Beach", "Sunny day", "", "Riga", "", created))

	got, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Beach", got.Title)
	assert.Equal(t, created.UTC().Format(time.DateOnly), got.Date, "missing date falls back to the creation day")
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM memories WHERE id`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_FillsCreatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT INTO memories \(id, user_id, title, description, date, location, image_url\).*RETURNING created_at`).
		WithArgs("m1", "u1", "Beach", "Sunny day", "2024-07-01", "Jurmala", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	m := &models.Memory{ID: "m1", UserID: "u1", Title: "Beach", Description: "Sunny day", Date: "2024-07-01", Location: "Jurmala"}
	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, created, m.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO memories`).WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &models.Memory{ID: "m1", UserID: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: fk violation")
}

func TestUpdate_SetsOnlyPatchedColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	title := "Beach trip"
	location := ""

	mock.ExpectQuery(`(?s)^UPDATE memories SET title = \$2, location = NULLIF\(\$3, ''\) WHERE id = \$1 RETURNING .*`).
		WithArgs("m1", "Beach trip", "").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("m1", "u1", "Beach trip", "Sunny day", "2024-07-01", "", "", created))

	got, err := repo.Update(context.Background(), "m1", models.MemoryPatch{Title: &title, Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Beach trip", got.Title)
	assert.Equal(t, "Unknown", got.Location)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	date := "2024-01-01"
	mock.ExpectQuery(`UPDATE memories SET date = NULLIF\(\$2, ''\)::date`).
		WithArgs("m9", "2024-01-01").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "m9", models.MemoryPatch{Date: &date})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_EmptyPatchReads(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM memories WHERE id = \$1`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("m1", "u1", "Beach", "Sunny day", "2024-07-01", "Riga", "", created))

	got, err := repo.Update(context.Background(), "m1", models.MemoryPatch{})
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM memories WHERE id = \$1`).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "m1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_UnknownIDIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM memories`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "ghost"), common.ErrorNotFound)
}

func TestDelete_ExecAndRowsAffectedErrors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM memories`).WillReturnError(errors.New("db down"))
	err := repo.Delete(context.Background(), "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")

	mock.ExpectExec(`DELETE FROM memories`).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))
	err = repo.Delete(context.Background(), "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected error")
}

func TestListOptions_YearRange(t *testing.T) {
	now := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	_, _, ok := ListOptions{Filter: viewstate.FilterAll, Now: now}.YearRange()
	assert.False(t, ok)

	from, to, ok := ListOptions{Filter: viewstate.FilterThisYear, Now: now}.YearRange()
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", from)
	assert.Equal(t, "2025-01-01", to)

	from, to, _ = ListOptions{Filter: viewstate.FilterLastYear, Now: now}.YearRange()
	assert.Equal(t, "2023-01-01", from)
	assert.Equal(t, "2024-01-01", to)
}
