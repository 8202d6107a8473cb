package domain

import (
	"errors"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Difficulty
	}{
		{"easy", DifficultyEasy},
		{"MEDIUM", DifficultyMedium},
		{" Hard ", DifficultyHard},
		{"expert", DifficultyExpert},
		{"", DifficultyMedium},
		{"brutal", DifficultyMedium},
	}
	for _, tt := range tests {
		if got := ParseDifficulty(tt.in); got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	params, err := NewParams(5, "hard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.NumQuestions != 5 || params.Difficulty != DifficultyHard {
		t.Errorf("unexpected params: %+v", params)
	}

	if _, err := NewParams(0, "easy"); !errors.Is(err, ErrInvalidQuestionCount) {
		t.Errorf("expected ErrInvalidQuestionCount for 0, got %v", err)
	}
	if _, err := NewParams(MaxQuestions+1, "easy"); !errors.Is(err, ErrInvalidQuestionCount) {
		t.Errorf("expected ErrInvalidQuestionCount above max, got %v", err)
	}
}

func TestParamsCanonical(t *testing.T) {
	t.Parallel()

	a, _ := NewParams(5, "hard")
	b, _ := NewParams(5, "HARD ")

	ca, cb := a.Canonical(), b.Canonical()
	if len(ca) != len(cb) {
		t.Fatalf("canonical lengths differ: %v vs %v", ca, cb)
	}
	for i := range ca {
		if ca[i] != cb[i] {
			t.Errorf("canonical forms differ at %d: %q vs %q", i, ca[i], cb[i])
		}
	}
}

func TestContentTypeValidate(t *testing.T) {
	t.Parallel()

	for _, ct := range []ContentType{ContentTypeNotes, ContentTypeQuiz, ContentTypeStudyPackage} {
		if err := ct.Validate(); err != nil {
			t.Errorf("expected %q to validate, got %v", ct, err)
		}
	}
	if err := ContentType("flashcards").Validate(); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
}
