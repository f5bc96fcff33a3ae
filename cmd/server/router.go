package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/scry-study/internal/api"
	apiMiddleware "github.com/phrazzld/scry-study/internal/api/middleware"
)

// setupRouter creates the router with every route and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTrace(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Metrics)

	limiter := apiMiddleware.NewRateLimiter(app.config.Session.RequestsPerMinute, app.config.Session.MaxSessions)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.sessions)

	routes := api.Routes{
		Auth:         api.NewAuthHandler(app.credentials, app.jwtService, app.sessions),
		Courses:      api.NewCourseHandler(),
		Papers:       api.NewPaperHandler(app.config.Storage.MaxUploadBytes),
		Authenticate: authMiddleware.Authenticate,
		Limit:        limiter.Limit,
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(time.Duration(app.config.Server.RequestTimeoutSeconds) * time.Second))
		routes.Register(r)
	})

	r.Get("/health", api.Health(app.sessions))
	r.Handle("/metrics", promhttp.Handler())

	return r
}
