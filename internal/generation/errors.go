package generation

import "errors"

// Common errors returned by the generation package.
var (
	// ErrGenerationFailed is returned when the model fallback chain is
	// exhausted without producing a valid result. It wraps the last
	// underlying failure.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when a model response cannot be
	// parsed into the expected schema or fails schema validation. Within
	// the fallback chain this is a transient condition: the next model
	// may produce well-formed output.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrTransientFailure marks provider failures worth advancing past:
	// rate limits, server errors, timeouts, dropped connections, and
	// unknown-model rejections.
	ErrTransientFailure = errors.New("transient provider failure")

	// ErrPermanentFailure marks provider rejections that no other model
	// will fix, such as authentication or malformed-request errors. The
	// chain escalates these immediately.
	ErrPermanentFailure = errors.New("permanent provider failure")

	// ErrInvalidConfig is returned when a generator or chain is
	// constructed with invalid configuration.
	ErrInvalidConfig = errors.New("invalid generation configuration")
)
