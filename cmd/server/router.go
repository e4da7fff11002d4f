package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cardifyai-code/cardifyai/internal/api"
	apiMiddleware "github.com/cardifyai-code/cardifyai/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	generateHandler := api.NewGenerateHandler(app.jobService, app.config.Generation)
	jobHandler := api.NewJobHandler(app.jobService)
	quotaHandler := api.NewQuotaHandler(app.quotaManager)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/generate", generateHandler.Generate)
			r.Post("/generate/upload", generateHandler.GenerateFromUpload)

			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Get("/jobs/{id}/export.csv", jobHandler.ExportCSV)

			r.Get("/quota", quotaHandler.GetQuota)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
