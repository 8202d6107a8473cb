package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultAttemptTimeout bounds a single model attempt. It is deliberately
// shorter than the overall deadline callers place on the chain so a hung
// attempt cannot starve the remaining models.
const DefaultAttemptTimeout = 10 * time.Second

// ParseFunc validates and consumes a raw model response. Returning an
// error marks the response malformed, which the chain treats the same as
// a transient provider failure: the next model gets a chance.
type ParseFunc func(raw string) error

// Chain runs one generation request against an ordered list of models,
// advancing past transient failures and malformed responses. Each model is
// attempted at most once per call; the chain never retries a model against
// itself. When every model has failed, the caller receives one aggregated
// error wrapping the last underlying failure.
type Chain struct {
	caller         ModelCaller
	models         []string
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// NewChain creates a fallback chain over the given models, tried in order.
func NewChain(caller ModelCaller, models []string, logger *slog.Logger) (*Chain, error) {
	if caller == nil {
		return nil, fmt.Errorf("%w: model caller cannot be nil", ErrInvalidConfig)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: model list cannot be empty", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Chain{
		caller:         caller,
		models:         append([]string(nil), models...),
		attemptTimeout: DefaultAttemptTimeout,
		logger:         logger.With(slog.String("component", "model_chain")),
	}, nil
}

// SetAttemptTimeout overrides the per-attempt timeout. Values <= 0 are
// ignored.
func (c *Chain) SetAttemptTimeout(d time.Duration) {
	if d > 0 {
		c.attemptTimeout = d
	}
}

// Models returns the configured model identifiers in attempt order.
func (c *Chain) Models() []string {
	return append([]string(nil), c.models...)
}

// Generate sends the prompt through the fallback chain until one model
// produces a response that parse accepts. The parent context carries the
// overall deadline for the whole attempt sequence; each attempt
// additionally runs under its own shorter timeout so a stalled model
// releases its slot before the overall budget runs out.
//
// Either parse accepts exactly one response, or an error is returned and
// no partial result escapes.
func (c *Chain) Generate(ctx context.Context, prompt string, opts CallOptions, parse ParseFunc) error {
	var lastErr error

	for i, model := range c.models {
		// The overall deadline or a caller cancellation ends the whole
		// sequence; remaining models are abandoned, not awaited.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation aborted: %w", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		raw, err := c.caller.Call(attemptCtx, model, prompt, opts)
		cancel()

		if err == nil {
			if parseErr := parse(raw); parseErr == nil {
				c.logger.InfoContext(ctx, "generation succeeded",
					slog.String("model", model),
					slog.Int("attempt", i+1))
				return nil
			} else {
				lastErr = fmt.Errorf("%w: %v", ErrInvalidResponse, parseErr)
				c.logger.WarnContext(ctx, "model returned malformed response, advancing",
					slog.String("model", model),
					slog.Int("attempt", i+1),
					slog.String("error", parseErr.Error()))
				continue
			}
		}

		if errors.Is(err, ErrPermanentFailure) {
			c.logger.WarnContext(ctx, "permanent provider failure, not advancing",
				slog.String("model", model),
				slog.String("error", err.Error()))
			return err
		}

		// Distinguish the overall deadline from a per-attempt timeout:
		// only the latter is a reason to try the next model.
		if ctx.Err() != nil {
			return fmt.Errorf("generation aborted: %w", ctx.Err())
		}

		lastErr = err
		c.logger.WarnContext(ctx, "model attempt failed, advancing",
			slog.String("model", model),
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}

	return fmt.Errorf("%w: all %d models failed, last error: %w",
		ErrGenerationFailed, len(c.models), lastErr)
}
