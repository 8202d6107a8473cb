package api

import (
	"errors"
	"net/http"

	"github.com/studyquest/studyquest-api/internal/domain"
	"github.com/studyquest/studyquest-api/internal/generation"
	"github.com/studyquest/studyquest-api/internal/scoring"
	"github.com/studyquest/studyquest-api/internal/service"
)

// Generic messages returned for server-side failures. Provider error
// details stay in the logs, never in the response body.
const (
	msgGenerationFailed = "Content generation failed, please try again later"
	msgTimeout          = "Request timed out, please try again"
	msgInternal         = "Internal server error"
)

// StatusForError maps a workflow error to an HTTP status code and a safe
// response message. Validation failures echo their message because it
// describes the caller's input, not server internals.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, scoring.ErrEmptyQuiz):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout, msgTimeout
	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway, msgGenerationFailed
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
