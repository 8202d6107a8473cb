package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyquest/studyquest-api/internal/domain"
)

const notesPromptTemplate = `Explain the topic "%s" in 5-7 concise bullet points for a beginner.

Format your response as JSON with this structure:
{
  "summary": "A brief 1-2 sentence overview of the topic",
  "key_points": [
    "First key point...",
    "Second key point...",
    "Third key point...",
    "Fourth key point...",
    "Fifth key point..."
  ]
}

Make sure each bullet point is clear, concise, and easy to understand for someone learning this topic for the first time.`

// notesSchema is the JSON shape expected from the model.
type notesSchema struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// NotesGenerator produces structured study notes for a topic through the
// model fallback chain.
type NotesGenerator struct {
	chain  *Chain
	logger *slog.Logger
}

// NewNotesGenerator creates a NotesGenerator over the given chain.
func NewNotesGenerator(chain *Chain, logger *slog.Logger) (*NotesGenerator, error) {
	if chain == nil {
		return nil, fmt.Errorf("%w: chain cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotesGenerator{
		chain:  chain,
		logger: logger.With(slog.String("component", "notes_generator")),
	}, nil
}

// Generate builds the deterministic notes prompt for the topic, runs it
// through the fallback chain, and returns validated study notes. An empty
// summary is rejected as a malformed response; a key point count outside
// the 5-7 target is tolerated, with counts above the target truncated.
func (g *NotesGenerator) Generate(ctx context.Context, topic string) (*domain.StudyNotes, error) {
	prompt := fmt.Sprintf(notesPromptTemplate, topic)

	opts := CallOptions{
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 1000,
	}

	var parsed notesSchema
	err := g.chain.Generate(ctx, prompt, opts, func(raw string) error {
		var candidate notesSchema
		if err := json.Unmarshal([]byte(stripCodeFences(raw)), &candidate); err != nil {
			return fmt.Errorf("unmarshal notes: %w", err)
		}
		if strings.TrimSpace(candidate.Summary) == "" {
			return domain.ErrNotesEmptySummary
		}
		if len(candidate.KeyPoints) == 0 {
			return domain.ErrNotesNoKeyPoints
		}
		parsed = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(parsed.KeyPoints) > domain.MaxKeyPoints {
		g.logger.WarnContext(ctx, "truncating key points over target",
			slog.String("topic", topic),
			slog.Int("received", len(parsed.KeyPoints)),
			slog.Int("kept", domain.MaxKeyPoints))
		parsed.KeyPoints = parsed.KeyPoints[:domain.MaxKeyPoints]
	} else if len(parsed.KeyPoints) < domain.MinKeyPoints {
		g.logger.WarnContext(ctx, "fewer key points than target",
			slog.String("topic", topic),
			slog.Int("received", len(parsed.KeyPoints)))
	}

	notes := &domain.StudyNotes{
		Topic:     topic,
		Summary:   strings.TrimSpace(parsed.Summary),
		KeyPoints: parsed.KeyPoints,
	}

	g.logger.InfoContext(ctx, "notes generated",
		slog.String("topic", topic),
		slog.Int("key_points", len(notes.KeyPoints)))
	return notes, nil
}

// stripCodeFences removes a surrounding markdown code block, if present.
// Models asked for JSON sometimes wrap it in ```json fences anyway.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
