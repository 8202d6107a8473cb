package api

import (
	"github.com/studyquest/studyquest-api/internal/domain"
)

// DefaultNumQuestions is applied when a request omits the question count.
const DefaultNumQuestions = 5

// MaxBatchTopics bounds a single batch request.
const MaxBatchTopics = 10

// StudyRequest asks for a complete study package for one topic.
type StudyRequest struct {
	Topic        string `json:"topic"         validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=1,max=20"`
	Difficulty   string `json:"difficulty"`
}

// BatchStudyRequest asks for study packages for several topics at once.
type BatchStudyRequest struct {
	Topics       []string `json:"topics"        validate:"required,min=1,max=10"`
	NumQuestions int      `json:"num_questions" validate:"omitempty,min=1,max=20"`
	Difficulty   string   `json:"difficulty"`
}

// NotesRequest asks for study notes only.
type NotesRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// QuizFromTextRequest asks for a quiz generated from raw study material.
type QuizFromTextRequest struct {
	Text         string `json:"text"          validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=1,max=20"`
}

// SubmitQuizRequest carries a completed quiz for scoring. The client echoes
// the questions it was served so scoring stays stateless on the server.
type SubmitQuizRequest struct {
	Topic      string                `json:"topic"     validate:"required"`
	Questions  []domain.QuizQuestion `json:"questions" validate:"required,min=1"`
	Answers    []string              `json:"answers"   validate:"required"`
	Difficulty string                `json:"difficulty"`
}

// TopicResultResponse is one slot of a batch response. Exactly one of
// Package and Error is set; slots appear in request order.
type TopicResultResponse struct {
	Topic   string               `json:"topic"`
	Package *domain.StudyPackage `json:"package,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// BatchStudyResponse is the full batch outcome.
type BatchStudyResponse struct {
	Results []TopicResultResponse `json:"results"`
}

// QuizResponse wraps a generated quiz.
type QuizResponse struct {
	Questions []domain.QuizQuestion `json:"questions"`
}

// InvalidateResponse reports how many cache entries a purge removed.
type InvalidateResponse struct {
	Topic   string `json:"topic"`
	Deleted int64  `json:"deleted"`
}
