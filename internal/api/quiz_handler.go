package api

import (
	"log/slog"
	"net/http"

	"github.com/studyquest/studyquest-api/internal/api/shared"
	"github.com/studyquest/studyquest-api/internal/domain"
	"github.com/studyquest/studyquest-api/internal/scoring"
	"github.com/studyquest/studyquest-api/internal/service"
)

// QuizHandler handles quiz generation and submission requests.
type QuizHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(studyService *service.StudyService, logger *slog.Logger) *QuizHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for QuizHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "quiz_handler")),
	}
}

// CreateQuizFromText handles POST /quiz/from-text requests.
// The text has no topic identity, so the generated quiz is not cached.
func (h *QuizHandler) CreateQuizFromText(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req QuizFromTextRequest
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

	quiz, err := h.studyService.QuizFromText(r.Context(), req.Text, req.NumQuestions)
	if err != nil {
		status, msg := StatusForError(err)
		log.Error("quiz from text failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, status, msg)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizResponse{Questions: quiz})
}

// SubmitQuiz handles POST /quiz/submit requests.
// Scoring is deterministic and local; no model call is involved.
func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req SubmitQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := scoring.Evaluate(req.Topic, req.Questions, req.Answers, domain.ParseDifficulty(req.Difficulty))
	if err != nil {
		status, msg := StatusForError(err)
		shared.RespondWithError(w, r, status, msg)
		return
	}

	log.Info("quiz submission scored",
		slog.String("topic", req.Topic),
		slog.Float64("score", result.ScorePercentage),
		slog.Int("xp", result.XPAwarded))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
