package domain

// PackageMetadata describes how a study package was produced.
type PackageMetadata struct {
	NumKeyPoints     int   `json:"num_key_points"`
	NumQuestions     int   `json:"num_questions"`
	Cached           bool  `json:"cached"`
	GenerationTimeMS int64 `json:"generation_time_ms"`
}

// StudyPackage bundles the notes and quiz generated for one topic.
type StudyPackage struct {
	Topic    string          `json:"topic"`
	Notes    *StudyNotes     `json:"notes"`
	Quiz     []QuizQuestion  `json:"quiz"`
	Metadata PackageMetadata `json:"metadata"`
}
