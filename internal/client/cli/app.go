package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/client/client"
	"github.com/dmitrijs2005/memorylane/internal/client/config"
	"github.com/dmitrijs2005/memorylane/internal/client/services"
	"github.com/dmitrijs2005/memorylane/internal/client/session"
	"github.com/dmitrijs2005/memorylane/internal/filex"
	"github.com/dmitrijs2005/memorylane/internal/logging"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	session  *session.Session
	users    services.UserService
	memories services.MemoryService

	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
	readFile func(string) ([]byte, error)

	// Ids in the order of the last listing, so commands accept "3"
	// instead of a UUID.
	shownUsers    []string
	shownMemories []string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, config.StateFileName))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		session:  session.New(db),
		users:    services.NewUserService(api),
		memories: services.NewMemoryService(api, timeline.New()),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
		readFile: os.ReadFile,
	}, nil
}

// Run restores the previous session, serves the REPL and persists the
// session on the way out.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if err := a.session.Load(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}

	fmt.Fprintln(a.out, "Welcome to Memorylane (type 'help' for commands)")

	if a.hasProfile() {
		if err := a.List(ctx, nil); err != nil {
			fmt.Fprintln(a.out, "Error:", describe(err))
		}
	}

	runREPL(ctx, a, a.status, a.reader, a.out)

	a.save(ctx)
}

func (a *App) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if z, ok := a.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}

func (a *App) save(ctx context.Context) {
	if err := a.session.Persist(ctx); err != nil {
		a.logger.Warn(ctx, "could not persist session", "error", err)
	}
}

func (a *App) hasProfile() bool {
	return a.session.UserID() != ""
}

func (a *App) status() string {
	if !a.hasProfile() {
		return ""
	}
	vs := a.session.ViewState()
	return fmt.Sprintf("(%s | %s, %s) ", a.session.UserName(), vs.Filter, vs.Sort)
}
