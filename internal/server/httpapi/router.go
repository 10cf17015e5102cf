package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", common.SecretHeaderName},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", s.getUser)
				r.Get("/memories", s.listMemories)
				r.Post("/memories", s.createMemory)
				r.Get("/timeline", s.timeline)
			})
		})

		r.Route("/memories/{memoryID}", func(r chi.Router) {
			r.Get("/", s.getMemory)
			r.Patch("/", s.updateMemory)
			r.Delete("/", s.deleteMemory)
		})

		r.Post("/uploads", s.upload)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Put("/", s.selectUser)
			r.Delete("/", s.forgetUser)
		})
	})

	return r
}
