package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nickunderhill/ai-interviewer/internal/api"
	apimiddleware "github.com/nickunderhill/ai-interviewer/internal/api/middleware"
)

// setupRouter builds the HTTP routing table. Operation and session routes
// require a valid JWT; health and metrics endpoints are public.
func (app *application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.MetricsMiddleware(app.metrics))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	operationHandler := api.NewOperationHandler(app.operationService, app.logger)
	sessionHandler := api.NewSessionHandler(
		app.operationService,
		app.sessionStore,
		app.feedbackStore,
		app.logger,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/operations", func(r chi.Router) {
			r.Get("/{operationID}", operationHandler.GetOperation)
			r.Post("/{operationID}/retry", operationHandler.RetryOperation)
		})

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/generate-question", sessionHandler.GenerateQuestion)
			r.Post("/feedback", sessionHandler.AnalyzeFeedback)
			r.Get("/feedback", sessionHandler.GetFeedback)
		})
	})

	return r
}
