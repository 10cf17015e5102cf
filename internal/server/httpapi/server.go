// Package httpapi exposes users, memories, uploads and the grouped timeline
// over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/logging"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/server/services"
	"github.com/dmitrijs2005/memorylane/internal/server/validation"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

type MemoryService interface {
	List(ctx context.Context, userID string, vs viewstate.ViewState, limit, offset int) ([]models.Memory, error)
	Timeline(ctx context.Context, userID string, vs viewstate.ViewState) (*services.TimelineView, error)
	Get(ctx context.Context, id string) (*models.Memory, error)
	Create(ctx context.Context, userID, secret string, in validation.MemoryInput, image *services.Upload) (*models.Memory, error)
	Update(ctx context.Context, id, secret string, in validation.PatchInput) (*models.Memory, error)
	Delete(ctx context.Context, id, secret string) error
	UploadImage(ctx context.Context, secret string, image services.Upload) (string, error)
	MaxUploadSize() int64
}

// Options configures the listener and the selection cookie.
type Options struct {
	Address         string
	AllowedOrigins  []string
	SessionKey      []byte
	SessionValidity time.Duration
	SecureCookie    bool
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	opts     Options
	logger   logging.Logger
	users    UserService
	memories MemoryService
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, ms MemoryService) *HTTPServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		opts:     opts,
		logger:   l.With("module", "http_server"),
		users:    us,
		memories: ms,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
