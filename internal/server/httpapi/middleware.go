package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger writes one access line per request, at a level that follows
// the response status.
func requestLogger(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if r.URL.RawQuery != "" {
				args = append(args, "query", r.URL.RawQuery)
			}

			switch {
			case ww.Status() >= 500:
				l.Error(r.Context(), "Request failed", args...)
			case ww.Status() >= 400:
				l.Warn(r.Context(), "Request client error", args...)
			default:
				l.Info(r.Context(), "Request completed", args...)
			}
		})
	}
}
