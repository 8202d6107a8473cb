package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when an input fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTopic is returned when a topic is empty or whitespace-only.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrTopicTooLong is returned when a topic exceeds the maximum length.
	ErrTopicTooLong = errors.New("topic exceeds maximum length")

	// ErrTopicCharset is returned when a topic contains disallowed characters
	// or no alphanumeric character at all.
	ErrTopicCharset = errors.New("topic contains invalid characters")

	// ErrInvalidQuestionCount is returned when the requested number of quiz
	// questions is outside the allowed range.
	ErrInvalidQuestionCount = errors.New("number of questions out of range")

	// ErrInvalidContentType is returned when a content type is not one of
	// the known cacheable content types.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrEmptyText is returned when source text for quiz generation is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong is returned when source text for quiz generation
	// exceeds the maximum length.
	ErrTextTooLong = errors.New("text exceeds maximum length")
)
