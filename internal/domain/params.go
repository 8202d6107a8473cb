package domain

import (
	"fmt"
	"strings"
)

// Difficulty represents the requested difficulty of generated quiz questions.
type Difficulty string

// Supported difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// ParseDifficulty normalizes a difficulty string. Matching is
// case-insensitive; anything unrecognized (including the empty string)
// falls back to medium rather than failing.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	case DifficultyExpert:
		return DifficultyExpert
	default:
		return DifficultyMedium
	}
}

// ContentType identifies the kind of generated content stored in the cache.
type ContentType string

// Supported content types.
const (
	ContentTypeNotes        ContentType = "notes"
	ContentTypeQuiz         ContentType = "quiz"
	ContentTypeStudyPackage ContentType = "study_package"
)

// Validate checks that the content type is one of the known values.
func (c ContentType) Validate() error {
	switch c {
	case ContentTypeNotes, ContentTypeQuiz, ContentTypeStudyPackage:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidContentType, string(c))
	}
}

// Question count bounds for quiz generation.
const (
	MinQuestions = 1
	MaxQuestions = 20
)

// Params carries the tunable parameters of a generation request. The zero
// value is not valid; use NewParams to apply defaults and validation.
type Params struct {
	NumQuestions int        `json:"num_questions"`
	Difficulty   Difficulty `json:"difficulty"`
}

// NewParams builds Params from raw inputs. The question count must be
// within [MinQuestions, MaxQuestions]; the difficulty string is normalized
// with unknown values defaulting to medium.
func NewParams(numQuestions int, difficulty string) (Params, error) {
	if numQuestions < MinQuestions || numQuestions > MaxQuestions {
		return Params{}, fmt.Errorf("%w: %d (must be %d-%d)",
			ErrInvalidQuestionCount, numQuestions, MinQuestions, MaxQuestions)
	}

	return Params{
		NumQuestions: numQuestions,
		Difficulty:   ParseDifficulty(string(difficulty)),
	}, nil
}

// Canonical returns the parameters as a stable, sorted key:value sequence
// suitable for cache key derivation. Equal parameters always produce the
// same sequence regardless of how they were supplied.
func (p Params) Canonical() []string {
	return []string{
		fmt.Sprintf("difficulty:%s", p.Difficulty),
		fmt.Sprintf("num_questions:%d", p.NumQuestions),
	}
}
