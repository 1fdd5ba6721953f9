package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/invopop/jsonschema"
)

// Request holds the parameters for one generation call.
type Request struct {
	SystemPrompt string
	Prompt       string
	// Schema constrains the reply to JSON of this shape. Nil requests free text.
	Schema *jsonschema.Schema
}

// Response holds the raw text answer of a generation call.
type Response struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to a language model for text generation.
type Client interface {
	// Generate sends a prompt and returns the raw text response. It makes
	// exactly one attempt, bounded by the configured timeout.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Available checks whether the provider is reachable.
	Available(ctx context.Context) bool
}

// New builds the Client for cfg.Provider.
func New(cfg Config, observer Observer) (Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return NewGeminiClient(cfg, observer), nil
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// classify maps a transport-level failure onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrProviderStatus), errors.Is(err, ErrInvalidOutput), errors.Is(err, ErrMissingCredential):
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("llm request canceled: %w", ctx.Err())
	default:
		// Dial failures, resets and TLS errors all mean the provider was not reached.
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "MISSING_CREDENTIAL"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrProviderStatus):
		return "PROVIDER_STATUS"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

func observe(o Observer, cfg Config, start time.Time, err error) int64 {
	latency := time.Since(start).Milliseconds()
	o.OnCallComplete(CallEvent{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return latency
}
