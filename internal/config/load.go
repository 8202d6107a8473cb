package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config
// file. Environment variables use the STUDYQUEST_ prefix with underscores
// for nesting (STUDYQUEST_SERVER_PORT, STUDYQUEST_LLM_GEMINI_API_KEY) and
// take precedence over values from a config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("STUDYQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Registered empty so Unmarshal sees the keys when they arrive via
	// environment variables only; validation rejects them if still unset.
	v.SetDefault("database.url", "")
	v.SetDefault("llm.gemini_api_key", "")

	v.SetDefault("llm.models", []string{
		"gemini-2.0-flash",
		"gemini-flash-latest",
		"gemini-pro-latest",
	})
	v.SetDefault("llm.requests_per_minute", 60)
	v.SetDefault("llm.attempt_timeout_seconds", 10)
	v.SetDefault("llm.study_timeout_seconds", 30)
	v.SetDefault("llm.batch_topic_timeout_seconds", 20)

	v.SetDefault("cache.soft_ttl_hours", 24)
	v.SetDefault("cache.hard_ttl_hours", 168)
	v.SetDefault("cache.max_per_topic", 5)
	v.SetDefault("cache.sweep_schedule", "0 2 * * *")
}
