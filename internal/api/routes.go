package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/question", s.handleQuestion)
		r.Post("/answer", s.handleAnswer)
		r.Get("/stats", s.handleStats)
		r.Get("/session", s.handleSession)
		r.Post("/session/extra", s.handleAddExtra)
		r.Post("/session/requeue", s.handleRequeue)
		r.Post("/reset", s.handleReset)
		r.Post("/reconcile", s.handleReconcile)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/feedback/count", s.handleFeedbackCount)
	})

	r.Get("/audio/{pairID}/{slot}", s.handleAudio)

	return r
}
