package scoring

import (
	"errors"
	"math"
	"strings"

	"github.com/studyquest/studyquest-api/internal/domain"
)

// BaseXP is awarded for completing any quiz, before bonuses.
const BaseXP = 100

// ErrEmptyQuiz is returned when a submission carries no questions.
var ErrEmptyQuiz = errors.New("quiz cannot be empty")

// difficultyBonus maps each difficulty to its flat XP bonus.
var difficultyBonus = map[domain.Difficulty]int{
	domain.DifficultyEasy:   10,
	domain.DifficultyMedium: 20,
	domain.DifficultyHard:   30,
	domain.DifficultyExpert: 50,
}

// Feedback messages, selected by score band.
const (
	feedbackMastered  = "Excellent! You have mastered this topic!"
	feedbackSolid     = "Great job! You have a solid understanding."
	feedbackImproving = "Good effort! Review the explanations to improve."
	feedbackKeepGoing = "Keep studying! Review the notes and try again."
)

// Evaluate scores a quiz submission. answers[i] is judged against
// quiz[i].Answer, case-insensitively; a submission shorter than the quiz
// counts the missing positions as incorrect, and extra answers are
// ignored. The score percentage is rounded to two decimals, so equal
// submissions always produce the equal result.
func Evaluate(
	topic string,
	quiz []domain.QuizQuestion,
	answers []string,
	difficulty domain.Difficulty,
) (*domain.EvaluationResult, error) {
	if len(quiz) == 0 {
		return nil, ErrEmptyQuiz
	}

	correct := 0
	results := make([]domain.QuestionResult, 0, len(quiz))
	for i, question := range quiz {
		var given string
		if i < len(answers) {
			given = strings.ToUpper(strings.TrimSpace(answers[i]))
		}

		isCorrect := given != "" && given == strings.ToUpper(question.Answer)
		if isCorrect {
			correct++
		}

		results = append(results, domain.QuestionResult{
			QuestionNumber: i + 1,
			Question:       question.Question,
			UserAnswer:     given,
			CorrectAnswer:  question.Answer,
			IsCorrect:      isCorrect,
			Explanation:    question.Explanation,
		})
	}

	score := round2(100 * float64(correct) / float64(len(quiz)))

	return &domain.EvaluationResult{
		Topic:           topic,
		TotalQuestions:  len(quiz),
		CorrectCount:    correct,
		ScorePercentage: score,
		Tier:            TierFor(score),
		XPAwarded:       CalculateXP(score, difficulty),
		Feedback:        feedbackFor(score),
		Results:         results,
	}, nil
}

// CalculateXP computes the XP reward for a scored quiz:
// a flat base, a difficulty bonus (unrecognized difficulties pay the
// medium bonus), and a score tier bonus.
func CalculateXP(scorePercentage float64, difficulty domain.Difficulty) int {
	bonus := difficultyBonus[domain.ParseDifficulty(string(difficulty))]
	return BaseXP + bonus + tierBonus(scorePercentage)
}

// TierFor buckets a score percentage into its reward tier.
func TierFor(score float64) domain.Tier {
	switch {
	case score >= 100:
		return domain.TierPerfect
	case score >= 90:
		return domain.TierExcellent
	case score >= 80:
		return domain.TierGood
	case score >= 70:
		return domain.TierPassing
	default:
		return domain.TierBelowPassing
	}
}

// tierBonus returns the flat XP bonus for a score tier.
func tierBonus(score float64) int {
	switch {
	case score >= 100:
		return 50
	case score >= 90:
		return 30
	case score >= 80:
		return 15
	default:
		return 0
	}
}

// feedbackFor selects the feedback message for a score. Bands are
// inclusive at their lower bound.
func feedbackFor(score float64) string {
	switch {
	case score >= 90:
		return feedbackMastered
	case score >= 70:
		return feedbackSolid
	case score >= 50:
		return feedbackImproving
	default:
		return feedbackKeepGoing
	}
}

// round2 rounds to two decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
