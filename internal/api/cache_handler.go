package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyquest/studyquest-api/internal/api/shared"
	"github.com/studyquest/studyquest-api/internal/service"
)

// CacheHandler handles cache inspection and invalidation requests.
type CacheHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(studyService *service.StudyService, logger *slog.Logger) *CacheHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for CacheHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CacheHandler")
	}

	return &CacheHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "cache_handler")),
	}
}

// GetStats handles GET /cache/stats requests. An optional ?topic= query
// parameter scopes the report to one topic.
func (h *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.studyService.CacheStats(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		h.logger.Error("cache stats failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// InvalidateTopic handles DELETE /cache/{topic} requests.
func (h *CacheHandler) InvalidateTopic(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	deleted, err := h.studyService.InvalidateTopic(r.Context(), topic)
	if err != nil {
		status, msg := StatusForError(err)
		shared.RespondWithError(w, r, status, msg)
		return
	}

	h.logger.Info("cache invalidated",
		slog.String("topic", topic),
		slog.Int64("deleted", deleted))
	shared.RespondWithJSON(w, r, http.StatusOK, InvalidateResponse{Topic: topic, Deleted: deleted})
}
