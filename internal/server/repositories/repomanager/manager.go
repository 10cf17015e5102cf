package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/memorylane/internal/dbx"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/memories"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Memories(db dbx.DBTX) memories.Repository
}
