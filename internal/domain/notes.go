package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Target bounds for the number of key points in generated notes. These are
// soft targets: out-of-range counts are tolerated, not rejected.
const (
	MinKeyPoints = 5
	MaxKeyPoints = 7
)

// Validation errors for StudyNotes.
var (
	ErrNotesEmptySummary = errors.New("notes summary cannot be empty")
	ErrNotesNoKeyPoints  = errors.New("notes must contain at least one key point")
)

// StudyNotes is the structured study material generated for a topic:
// a short summary plus an ordered list of key points.
type StudyNotes struct {
	Topic     string   `json:"topic"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// Validate checks that the notes carry a non-empty summary and at least
// one key point.
func (n *StudyNotes) Validate() error {
	if strings.TrimSpace(n.Summary) == "" {
		return ErrNotesEmptySummary
	}
	if len(n.KeyPoints) == 0 {
		return ErrNotesNoKeyPoints
	}
	return nil
}

// FormatForQuiz renders the notes as plain text in the shape the quiz
// prompt expects: topic, summary, then numbered key points.
func (n *StudyNotes) FormatForQuiz() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", n.Topic)
	fmt.Fprintf(&b, "Summary: %s\n\n", n.Summary)
	b.WriteString("Key Points:\n")
	for i, point := range n.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, point)
	}
	return b.String()
}
