package domain

import (
	"errors"
	"strings"
)

// QuizOptionCount is the required number of answer options per question.
const QuizOptionCount = 4

// AnswerLetters are the valid answer labels, in option order.
var AnswerLetters = []string{"A", "B", "C", "D"}

// Validation errors for QuizQuestion.
var (
	ErrQuestionEmpty            = errors.New("question text cannot be empty")
	ErrQuestionOptionCount      = errors.New("question must have exactly 4 options")
	ErrQuestionInvalidAnswer    = errors.New("answer must be one of A, B, C, D")
	ErrQuestionEmptyExplanation = errors.New("explanation cannot be empty")
)

// QuizQuestion is a single multiple-choice question with four labeled
// options, one correct answer letter, and an explanation.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Validate checks structural requirements: non-empty question text,
// exactly four options, an answer in A-D, and a non-empty explanation.
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrQuestionEmpty
	}
	if len(q.Options) != QuizOptionCount {
		return ErrQuestionOptionCount
	}
	if !IsAnswerLetter(q.Answer) {
		return ErrQuestionInvalidAnswer
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return ErrQuestionEmptyExplanation
	}
	return nil
}

// NormalizedQuestion returns the question text lowercased with whitespace
// runs collapsed, for duplicate detection across a generated set.
func (q *QuizQuestion) NormalizedQuestion() string {
	return strings.Join(strings.Fields(strings.ToLower(q.Question)), " ")
}

// IsAnswerLetter reports whether s is exactly one of the valid answer labels.
func IsAnswerLetter(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	default:
		return false
	}
}
