package generation

import "context"

// CallOptions tunes a single model invocation.
type CallOptions struct {
	// Temperature controls sampling randomness.
	Temperature float32

	// TopP is the nucleus sampling threshold.
	TopP float32

	// TopK limits sampling to the K most likely tokens.
	TopK float32

	// MaxOutputTokens bounds the response length.
	MaxOutputTokens int32

	// JSONResponse asks the provider to emit application/json directly
	// instead of free-form text.
	JSONResponse bool
}

// ModelCaller is the capability interface over the external AI provider.
// One implementation serves every model in a fallback chain; the model
// identifier is part of the call, not the implementation.
//
// Implementations classify provider failures by wrapping them in
// ErrTransientFailure or ErrPermanentFailure so the chain can decide
// whether to advance to the next model.
type ModelCaller interface {
	// Call sends the prompt to the named model and returns the raw
	// response text. The context bounds the attempt; implementations
	// must abandon work promptly when it is cancelled.
	Call(ctx context.Context, model, prompt string, opts CallOptions) (string, error)
}
