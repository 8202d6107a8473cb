package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyquest/studyquest-api/internal/domain"
)

func makeQuiz(n int) []domain.QuizQuestion {
	quiz := make([]domain.QuizQuestion, 0, n)
	letters := []string{"A", "B", "C", "D"}
	for i := 0; i < n; i++ {
		quiz = append(quiz, domain.QuizQuestion{
			Question:    fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"A) one", "B) two", "C) three", "D) four"},
			Answer:      letters[i%len(letters)],
			Explanation: "Because.",
		})
	}
	return quiz
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("four of five correct", func(t *testing.T) {
		t.Parallel()

		quiz := makeQuiz(5)
		// answers follow the A,B,C,D,A key, with the last one wrong
		answers := []string{"A", "B", "C", "D", "B"}

		result, err := Evaluate("photosynthesis", quiz, answers, domain.DifficultyMedium)
		require.NoError(t, err)

		assert.Equal(t, 5, result.TotalQuestions)
		assert.Equal(t, 4, result.CorrectCount)
		assert.Equal(t, 80.0, result.ScorePercentage)
		assert.Equal(t, domain.TierGood, result.Tier)
		// 100 base + 20 medium + 15 tier
		assert.Equal(t, 135, result.XPAwarded)
		assert.Len(t, result.Results, 5)
		assert.False(t, result.Results[4].IsCorrect)
	})

	t.Run("case insensitive answers", func(t *testing.T) {
		t.Parallel()

		quiz := makeQuiz(2)
		result, err := Evaluate("cells", quiz, []string{"a", " b "}, domain.DifficultyEasy)
		require.NoError(t, err)
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 100.0, result.ScorePercentage)
		assert.Equal(t, domain.TierPerfect, result.Tier)
	})

	t.Run("short submission counts missing as incorrect", func(t *testing.T) {
		t.Parallel()

		quiz := makeQuiz(4)
		result, err := Evaluate("cells", quiz, []string{"A", "B"}, domain.DifficultyMedium)
		require.NoError(t, err)
		assert.Equal(t, 4, result.TotalQuestions)
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 50.0, result.ScorePercentage)
		assert.Equal(t, "", result.Results[3].UserAnswer)
		assert.False(t, result.Results[3].IsCorrect)
	})

	t.Run("extra answers ignored", func(t *testing.T) {
		t.Parallel()

		quiz := makeQuiz(2)
		result, err := Evaluate("cells", quiz, []string{"A", "B", "C", "D"}, domain.DifficultyMedium)
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalQuestions)
		assert.Len(t, result.Results, 2)
	})

	t.Run("repeating decimal rounds to two places", func(t *testing.T) {
		t.Parallel()

		quiz := makeQuiz(3)
		result, err := Evaluate("cells", quiz, []string{"A", "X", "X"}, domain.DifficultyMedium)
		require.NoError(t, err)
		assert.Equal(t, 33.33, result.ScorePercentage)
	})

	t.Run("empty quiz", func(t *testing.T) {
		t.Parallel()

		_, err := Evaluate("cells", nil, []string{"A"}, domain.DifficultyMedium)
		assert.ErrorIs(t, err, ErrEmptyQuiz)
	})
}

func TestCalculateXP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		score      float64
		difficulty domain.Difficulty
		want       int
	}{
		{"hard good tier", 85, domain.DifficultyHard, 145},
		{"expert perfect", 100, domain.DifficultyExpert, 200},
		{"easy passing", 70, domain.DifficultyEasy, 110},
		{"unknown difficulty pays medium", 70, domain.Difficulty("brutal"), 120},
		{"medium excellent", 90, domain.DifficultyMedium, 150},
		{"below passing no tier bonus", 40, domain.DifficultyMedium, 120},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CalculateXP(tt.score, tt.difficulty))
		})
	}
}

func TestTierFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  domain.Tier
	}{
		{100, domain.TierPerfect},
		{99.99, domain.TierExcellent},
		{90, domain.TierExcellent},
		{89.99, domain.TierGood},
		{80, domain.TierGood},
		{79.99, domain.TierPassing},
		{70, domain.TierPassing},
		{69.99, domain.TierBelowPassing},
		{0, domain.TierBelowPassing},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %v", tt.score)
	}
}

func TestFeedbackBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, feedbackMastered, feedbackFor(90))
	assert.Equal(t, feedbackSolid, feedbackFor(89.99))
	assert.Equal(t, feedbackSolid, feedbackFor(70))
	assert.Equal(t, feedbackImproving, feedbackFor(69.99))
	assert.Equal(t, feedbackImproving, feedbackFor(50))
	assert.Equal(t, feedbackKeepGoing, feedbackFor(49.99))
}
