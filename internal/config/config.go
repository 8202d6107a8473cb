package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains the generation provider settings.
type LLMConfig struct {
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`

	// Models is the ordered fallback list; the first model is tried first.
	Models []string `mapstructure:"models" validate:"required,min=1,dive,required"`

	// RequestsPerMinute paces outbound provider calls. Zero disables pacing.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`

	// AttemptTimeoutSeconds bounds a single model attempt.
	AttemptTimeoutSeconds int `mapstructure:"attempt_timeout_seconds" validate:"required,gt=0"`

	// StudyTimeoutSeconds is the aggregate deadline for a single-topic workflow.
	StudyTimeoutSeconds int `mapstructure:"study_timeout_seconds" validate:"required,gt=0"`

	// BatchTopicTimeoutSeconds is the per-topic deadline inside a batch workflow.
	BatchTopicTimeoutSeconds int `mapstructure:"batch_topic_timeout_seconds" validate:"required,gt=0"`
}

// CacheConfig contains the content cache retention settings.
type CacheConfig struct {
	// SoftTTLHours is the freshness window for reads.
	SoftTTLHours int `mapstructure:"soft_ttl_hours" validate:"required,gt=0"`

	// HardTTLHours is the absolute retention limit enforced by the sweep.
	HardTTLHours int `mapstructure:"hard_ttl_hours" validate:"required,gt=0"`

	// MaxPerTopic caps live entries per topic.
	MaxPerTopic int `mapstructure:"max_per_topic" validate:"required,gt=0"`

	// SweepSchedule is the cron expression for the hard-expiry sweep.
	SweepSchedule string `mapstructure:"sweep_schedule" validate:"required"`
}
