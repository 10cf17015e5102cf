package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/google/go-cmp/cmp"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var userColumns = []string{"id", "name", "avatar", "bio", "count"}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+u\.id,.*COUNT\(m\.id\)\s+FROM\s+users\s+u\s+LEFT\s+JOIN\s+memories\s+m\s+ON\s+m\.user_id\s*=\s*u\.id\s+GROUP\s+BY\s+u\.id\s+ORDER\s+BY\s+u\.name,\s*u\.id$`

	rows := sqlmock.NewRows(userColumns).
		AddRow("u1", "Alice", "http://a/1.png", "", 3).
		AddRow("u2", "Bob", "", "hiker", 0)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	want := []models.User{
		{ID: "u1", Name: "Alice", Avatar: "http://a/1.png", MemoryCount: 3},
		{ID: "u2", Name: "Bob", Bio: "hiker"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WillReturnRows(sqlmock.NewRows(userColumns))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`failed to select users: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+users\s+u.*WHERE\s+u\.id\s*=\s*\$1\s+GROUP\s+BY\s+u\.id$`
	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "Alice", "", "", 2))

	got, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Alice" || got.MemoryCount != 2 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+u\.id`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+u\.id`).WithArgs("u1").WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), "u1")
	if err == nil || errors.Is(err, common.ErrorNotFound) || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCountMemories(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM memories WHERE user_id = \$1$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountMemories(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CountMemories error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}

	mock.ExpectQuery(`SELECT COUNT`).WithArgs("u2").WillReturnError(errors.New("db down"))
	if _, err := repo.CountMemories(context.Background(), "u2"); err == nil {
		t.Fatal("expected error")
	}
}
