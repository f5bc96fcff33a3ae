package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes wires the API handlers under a chi router.
type Routes struct {
	Auth    *AuthHandler
	Courses *CourseHandler
	Papers  *PaperHandler

	// Authenticate resolves the session of protected requests.
	Authenticate func(http.Handler) http.Handler
	// Limit throttles requests. It runs after Authenticate on protected
	// routes so limits apply per session.
	Limit func(http.Handler) http.Handler
}

// Register mounts every API route on r, normally at /api.
func (rt Routes) Register(r chi.Router) {
	limit := rt.Limit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.With(limit).Post("/auth/login", rt.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(rt.Authenticate)
		r.Use(limit)

		r.Post("/auth/logout", rt.Auth.Logout)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", rt.Courses.List)
			r.Post("/", rt.Courses.Create)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", rt.Courses.Get)
				r.Post("/navigate", rt.Courses.Navigate)

				r.Route("/days/{day}", func(r chi.Router) {
					r.Post("/complete", rt.Courses.CompleteDay)
					r.Post("/explain", rt.Courses.Explain)
					r.Post("/test", rt.Courses.GenerateTest)
					r.Post("/test/answers", rt.Courses.SubmitAnswers)
					r.Post("/test/retake", rt.Courses.RetakeTest)
					r.Post("/flashcards", rt.Courses.GenerateFlashcards)
					r.Post("/flashcards/shuffle", rt.Courses.ShuffleFlashcards)
				})
			})
		})

		r.Post("/papers", rt.Papers.Analyze)
		r.Post("/papers/podcast", rt.Papers.Podcast)
		r.Post("/audio", rt.Papers.Audio)
	})
}
