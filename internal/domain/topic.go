package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxTopicLength is the maximum length of a topic after trimming.
const MaxTopicLength = 50

// MaxTextLength is the maximum length of raw source text accepted for
// quiz generation (for example text extracted from an uploaded document).
const MaxTextLength = 10000

// topicPattern allows letters, digits, spaces, and basic punctuation.
// Everything else is rejected to keep topics safe to embed in prompts.
var topicPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,()'"]+$`)

var alnumPattern = regexp.MustCompile(`[a-zA-Z0-9]`)

// ValidateTopic checks a topic against the length and character rules and
// returns the trimmed topic. The topic must be 1-50 characters after
// trimming and contain at least one alphanumeric character.
func ValidateTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("%w: %s", ErrValidation, ErrEmptyTopic)
	}
	if len(topic) > MaxTopicLength {
		return "", fmt.Errorf("%w: %s (max %d characters)",
			ErrValidation, ErrTopicTooLong, MaxTopicLength)
	}
	if !topicPattern.MatchString(topic) {
		return "", fmt.Errorf("%w: %s", ErrValidation, ErrTopicCharset)
	}
	if !alnumPattern.MatchString(topic) {
		return "", fmt.Errorf("%w: %s", ErrValidation, ErrTopicCharset)
	}
	return topic, nil
}

// ValidateText checks raw source text for quiz generation and returns the
// trimmed text. The text must be non-empty and at most MaxTextLength
// characters after trimming.
func ValidateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrValidation, ErrEmptyText)
	}
	if len(text) > MaxTextLength {
		return "", fmt.Errorf("%w: %s (max %d characters)",
			ErrValidation, ErrTextTooLong, MaxTextLength)
	}
	return text, nil
}

// NormalizeTopic lowercases a topic, trims it, and collapses internal
// whitespace runs to single spaces. Topics that differ only in casing or
// spacing normalize to the same string.
func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}
