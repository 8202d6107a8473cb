package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyquest/studyquest-api/internal/domain"
)

const quizPromptTemplate = `Based on the following study material, create %d multiple-choice questions to test understanding.

Study Material:
%s

Requirements:
1. Create exactly %d unique questions
2. Each question must have 4 options labeled A, B, C, and D
3. Each question must have exactly ONE correct answer
4. Questions should cover different aspects of the material
5. Questions should be clear and unambiguous
6. Include a brief explanation for the correct answer

Format your response as a JSON array with this exact structure:
[
  {
    "question": "What is the main purpose of...",
    "options": [
      "A) First option",
      "B) Second option",
      "C) Third option",
      "D) Fourth option"
    ],
    "answer": "B",
    "explanation": "Brief explanation of why B is correct"
  }
]

Make sure:
- The "answer" field contains only the letter (A, B, C, or D)
- Options are properly labeled with letters and parentheses
- Questions are diverse and not repetitive
- The JSON is valid and properly formatted`

// questionSchema is the JSON shape of one candidate question from the model.
type questionSchema struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// quizEnvelope handles models that wrap the array in an object.
type quizEnvelope struct {
	Questions []questionSchema `json:"questions"`
}

// QuizGenerator produces validated multiple-choice quizzes from study
// material through the model fallback chain.
//
// The generator accepts whatever valid subset of questions a model
// produces, up to the requested count. It never re-queries to top up a
// short quiz; only a response with zero valid questions is a failure.
type QuizGenerator struct {
	chain  *Chain
	logger *slog.Logger
}

// NewQuizGenerator creates a QuizGenerator over the given chain.
func NewQuizGenerator(chain *Chain, logger *slog.Logger) (*QuizGenerator, error) {
	if chain == nil {
		return nil, fmt.Errorf("%w: chain cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizGenerator{
		chain:  chain,
		logger: logger.With(slog.String("component", "quiz_generator")),
	}, nil
}

// GenerateFromText creates up to numQuestions multiple-choice questions
// from raw study material.
func (g *QuizGenerator) GenerateFromText(
	ctx context.Context,
	text string,
	numQuestions int,
) ([]domain.QuizQuestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: study material cannot be empty", ErrInvalidConfig)
	}

	prompt := fmt.Sprintf(quizPromptTemplate, numQuestions, text, numQuestions)

	opts := CallOptions{
		Temperature:     0.8,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 2000,
		JSONResponse:    true,
	}

	var questions []domain.QuizQuestion
	err := g.chain.Generate(ctx, prompt, opts, func(raw string) error {
		validated, parseErr := parseQuestions(raw, numQuestions)
		if parseErr != nil {
			return parseErr
		}
		questions = validated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(questions) < numQuestions {
		g.logger.WarnContext(ctx, "quiz shorter than requested",
			slog.Int("requested", numQuestions),
			slog.Int("valid", len(questions)))
	}
	return questions, nil
}

// GenerateFromNotes creates a quiz from structured study notes, rendering
// them to text in the shape the quiz prompt expects.
func (g *QuizGenerator) GenerateFromNotes(
	ctx context.Context,
	notes *domain.StudyNotes,
	numQuestions int,
) ([]domain.QuizQuestion, error) {
	if notes == nil {
		return nil, fmt.Errorf("%w: notes cannot be nil", ErrInvalidConfig)
	}
	return g.GenerateFromText(ctx, notes.FormatForQuiz(), numQuestions)
}

// parseQuestions unmarshals a model response and returns the valid,
// de-duplicated subset of candidate questions, capped at limit. It returns
// an error when the payload is not JSON or yields no valid question at
// all, so the chain advances to the next model.
func parseQuestions(raw string, limit int) ([]domain.QuizQuestion, error) {
	cleaned := stripCodeFences(raw)

	var candidates []questionSchema
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		var envelope quizEnvelope
		if envErr := json.Unmarshal([]byte(cleaned), &envelope); envErr != nil {
			return nil, fmt.Errorf("unmarshal quiz: %w", err)
		}
		candidates = envelope.Questions
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}

	validated := make([]domain.QuizQuestion, 0, limit)
	seen := make(map[string]struct{}, len(candidates))

	for _, candidate := range candidates {
		question := domain.QuizQuestion{
			Question:    strings.TrimSpace(candidate.Question),
			Options:     normalizeOptions(candidate.Options),
			Answer:      extractAnswerLetter(candidate.Answer),
			Explanation: strings.TrimSpace(candidate.Explanation),
		}

		// De-duplicate by normalized question text before validating:
		// two questions that differ only in casing or spacing count as one.
		norm := question.NormalizedQuestion()
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}

		if err := question.Validate(); err != nil {
			continue
		}

		validated = append(validated, question)
		if len(validated) >= limit {
			break
		}
	}

	if len(validated) == 0 {
		return nil, fmt.Errorf("no valid questions in response")
	}
	return validated, nil
}

// normalizeOptions trims candidate options and ensures each carries its
// letter label, adding "A) " style prefixes when the model omitted them.
func normalizeOptions(options []string) []string {
	if len(options) != domain.QuizOptionCount {
		return options
	}

	normalized := make([]string, 0, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		letter := domain.AnswerLetters[i]
		if !strings.HasPrefix(opt, letter+")") && !strings.HasPrefix(opt, letter+".") {
			opt = fmt.Sprintf("%s) %s", letter, opt)
		}
		normalized = append(normalized, opt)
	}
	return normalized
}

// extractAnswerLetter normalizes an answer field to a bare letter. Models
// occasionally answer "B)" or "Option B"; the first valid letter wins.
func extractAnswerLetter(answer string) string {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if domain.IsAnswerLetter(answer) {
		return answer
	}
	for _, letter := range domain.AnswerLetters {
		if strings.Contains(answer, letter) {
			return letter
		}
	}
	return answer
}
