package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/studyquest/studyquest-api/internal/api"
	apimiddleware "github.com/studyquest/studyquest-api/internal/api/middleware"
	"github.com/studyquest/studyquest-api/internal/service"
)

// newRouter configures the application router with all routes and middleware.
func newRouter(studyService *service.StudyService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	studyHandler := api.NewStudyHandler(studyService, log)
	quizHandler := api.NewQuizHandler(studyService, log)
	cacheHandler := api.NewCacheHandler(studyService, log)

	r.Route("/api", func(r chi.Router) {
		r.Post("/study", studyHandler.CreateStudyPackage)
		r.Post("/study/batch", studyHandler.CreateStudyPackages)
		r.Post("/study/notes", studyHandler.CreateNotes)

		r.Post("/quiz/from-text", quizHandler.CreateQuizFromText)
		r.Post("/quiz/submit", quizHandler.SubmitQuiz)

		r.Get("/cache/stats", cacheHandler.GetStats)
		r.Delete("/cache/{topic}", cacheHandler.InvalidateTopic)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
