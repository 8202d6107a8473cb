package domain

// Tier buckets a quiz score percentage for reward purposes.
type Tier string

// Score tiers, highest first.
const (
	TierPerfect      Tier = "perfect"
	TierExcellent    Tier = "excellent"
	TierGood         Tier = "good"
	TierPassing      Tier = "passing"
	TierBelowPassing Tier = "below_passing"
)

// QuestionResult records the outcome of a single answered question.
type QuestionResult struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	Explanation    string `json:"explanation"`
}

// EvaluationResult is the deterministic outcome of scoring a quiz
// submission: exact counts, a two-decimal percentage, the score tier,
// the XP reward, and per-question detail.
type EvaluationResult struct {
	Topic           string           `json:"topic"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectCount    int              `json:"correct_count"`
	ScorePercentage float64          `json:"score_percentage"`
	Tier            Tier             `json:"tier"`
	XPAwarded       int              `json:"xp_awarded"`
	Feedback        string           `json:"feedback"`
	Results         []QuestionResult `json:"results"`
}
