// Package server wires configuration, storage backends and the HTTP API
// together and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/logging"
	"github.com/dmitrijs2005/memorylane/internal/server/assets"
	"github.com/dmitrijs2005/memorylane/internal/server/auth"
	"github.com/dmitrijs2005/memorylane/internal/server/config"
	"github.com/dmitrijs2005/memorylane/internal/server/httpapi"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/memories"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/supabasestore"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/users"
	"github.com/dmitrijs2005/memorylane/internal/server/services"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
	"github.com/supabase-community/supabase-go"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	runMigrations = func(ctx context.Context, rm repomanager.RepositoryManager, db *sql.DB) error {
		return rm.RunMigrations(ctx, db)
	}

	newSupabaseClient = func(url, key string) (*supabase.Client, error) {
		return supabase.NewClient(url, key, nil)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.HTTPServer
	db     *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	loc, err := c.Location()
	if err != nil {
		return nil, fmt.Errorf("time zone error: %w", err)
	}

	var sb *supabase.Client
	supabaseClient := func() (*supabase.Client, error) {
		if sb != nil {
			return sb, nil
		}
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return nil, fmt.Errorf("supabase url and key are required")
		}
		sb, err = newSupabaseClient(c.SupabaseURL, c.SupabaseKey)
		return sb, err
	}

	var (
		memRepo  memories.Repository
		userRepo users.Repository
	)

	switch c.RecordBackend {
	case config.BackendPostgres:
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db

		rm := repomanager.NewPostgresRepositoryManager()
		if err := runMigrations(ctx, rm, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		memRepo, userRepo = rm.Memories(db), rm.Users(db)

	case config.BackendSupabase:
		client, err := supabaseClient()
		if err != nil {
			return nil, fmt.Errorf("supabase init error: %w", err)
		}
		memRepo = supabasestore.NewMemoryRepository(client)
		userRepo = supabasestore.NewUserRepository(client)

	default:
		return nil, fmt.Errorf("unknown record backend %q", c.RecordBackend)
	}

	var store assets.Store
	switch c.AssetBackend {
	case config.BackendS3:
		store, err = assets.NewS3Store(ctx, assets.S3Config{
			Region:        c.S3Region,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			BaseEndpoint:  c.S3BaseEndpoint,
			Bucket:        c.S3Bucket,
			PublicBaseURL: c.S3PublicBaseURL,
		})
	case config.BackendSupabase:
		var client *supabase.Client
		if client, err = supabaseClient(); err == nil {
			store = assets.NewSupabaseStore(client.Storage, c.SupabaseBucket)
		}
	default:
		err = fmt.Errorf("unknown asset backend %q", c.AssetBackend)
	}
	if err != nil {
		app.close()
		return nil, fmt.Errorf("asset store init error: %w", err)
	}

	gate, err := auth.NewSecretGate(c.MutationSecret, c.MutationSecretHash)
	if err != nil {
		app.close()
		return nil, err
	}
	if !gate.Configured() {
		logger.Warn(ctx, "no mutation secret configured, all changes will be rejected")
	}

	sessionKey := c.SessionKey
	if sessionKey == "" {
		if sessionKey, err = common.MakeRandHexString(32); err != nil {
			app.close()
			return nil, err
		}
		logger.Warn(ctx, "no session key configured, profile selections will not survive a restart")
	}

	pipeline := timeline.New(timeline.WithLocation(loc))

	ms := services.NewMemoryService(memRepo, userRepo, store, gate, pipeline, c.MaxUploadSize)
	us := services.NewUserService(userRepo)

	app.server = httpapi.NewHTTPServer(httpapi.Options{
		Address:         c.EndpointAddrHTTP,
		AllowedOrigins:  c.AllowedOrigins,
		SessionKey:      []byte(sessionKey),
		SessionValidity: c.SessionValidityDuration,
		SecureCookie:    c.SecureCookie,
	}, logger, us, ms)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until a signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.RecordBackend, "assets", app.config.AssetBackend)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
		app.db = nil
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}
