package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/studyquest/studyquest-api/internal/generation"
)

// Client calls the Gemini API on behalf of the fallback chain. One Client
// serves every model in the chain; the model name travels with each call.
type Client struct {
	client  *genai.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Options configures a Client.
type Options struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// RequestsPerMinute paces outbound calls. Zero disables pacing.
	RequestsPerMinute int
}

// NewClient creates a Gemini-backed ModelCaller.
func NewClient(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)),
			opts.RequestsPerMinute,
		)
	}

	return &Client{
		client:  genaiClient,
		limiter: limiter,
		logger:  logger.With(slog.String("component", "gemini_client")),
	}, nil
}

var _ generation.ModelCaller = (*Client)(nil)

// Call implements generation.ModelCaller.
func (c *Client) Call(
	ctx context.Context,
	model, prompt string,
	opts generation.CallOptions,
) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter wait: %v",
				generation.ErrTransientFailure, err)
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		TopP:            genai.Ptr(opts.TopP),
		TopK:            genai.Ptr(opts.TopK),
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	if opts.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		classified := classifyError(err)
		c.logger.WarnContext(ctx, "gemini call failed",
			slog.String("model", model),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", classified
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrTransientFailure)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters",
			generation.ErrPermanentFailure)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", generation.ErrTransientFailure)
	}

	c.logger.DebugContext(ctx, "gemini call succeeded",
		slog.String("model", model),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("response_length", len(text)))
	return text, nil
}

// classifyError maps a Gemini API failure onto the chain's taxonomy.
// Rate limits, server errors, timeouts, dropped connections, and
// unknown-model 404s are transient; any other client error (auth,
// malformed request) is permanent and ends the chain.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: rate limited: %v", generation.ErrTransientFailure, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: server error %d: %v",
				generation.ErrTransientFailure, apiErr.Code, err)
		case apiErr.Code == http.StatusNotFound:
			// Unknown model: the next model in the chain may exist.
			return fmt.Errorf("%w: model not found: %v", generation.ErrTransientFailure, err)
		case apiErr.Code >= http.StatusBadRequest:
			return fmt.Errorf("%w: provider rejected request (%d): %v",
				generation.ErrPermanentFailure, apiErr.Code, err)
		}
	}

	// Timeouts, connection resets, and anything else unclassifiable are
	// worth trying the next model for.
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
