package api

import (
	"log/slog"
	"net/http"

	"github.com/studyquest/studyquest-api/internal/api/shared"
	"github.com/studyquest/studyquest-api/internal/service"
)

// StudyHandler handles study package and notes requests.
type StudyHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService *service.StudyService, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for StudyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// CreateStudyPackage handles POST /study requests.
// It returns a complete study package (notes plus quiz) for one topic,
// served from cache when fresh content is available.
func (h *StudyHandler) CreateStudyPackage(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req StudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = DefaultNumQuestions
	}

	pkg, err := h.studyService.StudyTopic(r.Context(), req.Topic, req.NumQuestions, req.Difficulty)
	if err != nil {
		status, msg := StatusForError(err)
		log.Error("study package request failed",
			slog.String("topic", req.Topic),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, status, msg)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pkg)
}

// CreateStudyPackages handles POST /study/batch requests.
// Each topic succeeds or fails on its own; results preserve request order.
func (h *StudyHandler) CreateStudyPackages(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req BatchStudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = DefaultNumQuestions
	}

	results, err := h.studyService.StudyTopics(r.Context(), req.Topics, req.NumQuestions, req.Difficulty)
	if err != nil {
		status, msg := StatusForError(err)
		shared.RespondWithError(w, r, status, msg)
		return
	}

	resp := BatchStudyResponse{Results: make([]TopicResultResponse, len(results))}
	failed := 0
	for i, result := range results {
		resp.Results[i].Topic = result.Topic
		if result.Err != nil {
			failed++
			_, msg := StatusForError(result.Err)
			resp.Results[i].Error = msg
			continue
		}
		resp.Results[i].Package = result.Package
	}
	if failed > 0 {
		log.Warn("batch completed with failures",
			slog.Int("topics", len(results)),
			slog.Int("failed", failed))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateNotes handles POST /study/notes requests.
func (h *StudyHandler) CreateNotes(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req NotesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	notes, err := h.studyService.GenerateNotes(r.Context(), req.Topic)
	if err != nil {
		status, msg := StatusForError(err)
		log.Error("notes request failed",
			slog.String("topic", req.Topic),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, status, msg)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}
