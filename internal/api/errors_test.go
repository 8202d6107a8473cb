package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyquest/studyquest-api/internal/domain"
	"github.com/studyquest/studyquest-api/internal/generation"
	"github.com/studyquest/studyquest-api/internal/scoring"
	"github.com/studyquest/studyquest-api/internal/service"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "validation error",
			err:            fmt.Errorf("%w: topic cannot be empty", domain.ErrValidation),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrapped validation error",
			err:            fmt.Errorf("rejected: %w", domain.ErrValidation),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty quiz",
			err:            scoring.ErrEmptyQuiz,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "timeout",
			err:            fmt.Errorf("%w: deadline", service.ErrTimeout),
			expectedStatus: http.StatusGatewayTimeout,
		},
		{
			name:           "generation exhausted",
			err:            fmt.Errorf("%w: all 3 models failed", generation.ErrGenerationFailed),
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, msg := StatusForError(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusForErrorHidesInternalDetail(t *testing.T) {
	t.Parallel()

	_, msg := StatusForError(errors.New("pq: connection refused at 10.0.0.3"))
	assert.NotContains(t, msg, "10.0.0.3")

	_, msg = StatusForError(fmt.Errorf("%w: api key abc123 rejected", generation.ErrGenerationFailed))
	assert.NotContains(t, msg, "abc123")
}
