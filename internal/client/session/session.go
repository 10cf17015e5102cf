// Package session keeps the CLI's current profile and view query, and
// persists them between runs in the local metadata table.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/dbx"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

// QueryKey stores the last view query string.
const QueryKey = "view-query"

type storedUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is not safe for concurrent use; the REPL owns it.
type Session struct {
	db      *sql.DB
	newRepo func(dbx.DBTX) metadata.Repository

	user  *storedUser
	query string
}

func New(db *sql.DB) *Session {
	return &Session{
		db:      db,
		newRepo: func(tx dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(tx) },
	}
}

// Load replaces the in-memory state with what was last persisted. A
// corrupt profile record is dropped rather than reported.
func (s *Session) Load(ctx context.Context) error {
	repo := s.newRepo(s.db)

	s.user = nil
	raw, ok, err := repo.Get(ctx, common.SelectedUserKey)
	if err != nil {
		return err
	}
	if ok {
		var u storedUser
		if json.Unmarshal([]byte(raw), &u) == nil && u.ID != "" {
			s.user = &u
		}
	}

	query, _, err := repo.Get(ctx, QueryKey)
	if err != nil {
		return err
	}
	s.query = query
	return nil
}

// Persist writes the current state in one transaction. Forgotten profiles
// and default queries remove their keys.
func (s *Session) Persist(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)

		if s.user == nil {
			if err := repo.Delete(ctx, common.SelectedUserKey); err != nil {
				return err
			}
		} else {
			b, err := json.Marshal(s.user)
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}
			if err := repo.Set(ctx, common.SelectedUserKey, string(b)); err != nil {
				return err
			}
		}

		if s.query == "" {
			return repo.Delete(ctx, QueryKey)
		}
		return repo.Set(ctx, QueryKey, s.query)
	})
}

func (s *Session) Select(u models.User) {
	s.user = &storedUser{ID: u.ID, Name: u.Name}
}

func (s *Session) Forget() {
	s.user = nil
}

// UserID is empty when no profile is selected.
func (s *Session) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) UserName() string {
	if s.user == nil {
		return ""
	}
	return s.user.Name
}

func (s *Session) Query() string {
	return s.query
}

// Navigate replaces the current query. There is no history.
func (s *Session) Navigate(query string) {
	s.query = query
}

func (s *Session) ViewState() viewstate.ViewState {
	return viewstate.Decode(s.query)
}
