package llm

import (
	"fmt"
	"time"
)

// Provider names a model backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel    = "gemini-3-flash-preview"
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOllamaModel    = "llama3.2"
)

// Config holds everything needed to build a Client.
type Config struct {
	Provider    Provider
	Endpoint    string
	Model       string
	APIKey      string
	TimeoutMs   int
	Temperature *float64 // nil uses the provider default
	LogCalls    bool
}

// DefaultConfig returns the Gemini configuration with a 60s bound per call.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderGemini,
		Endpoint:  DefaultGeminiEndpoint,
		Model:     DefaultGeminiModel,
		TimeoutMs: 60000,
	}
}

// WithDefaults fills an empty endpoint, model or timeout with the defaults of
// the configured provider.
func (c Config) WithDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	switch c.Provider {
	case ProviderGemini:
		if c.Endpoint == "" {
			c.Endpoint = DefaultGeminiEndpoint
		}
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
	case ProviderOllama:
		if c.Endpoint == "" {
			c.Endpoint = DefaultOllamaEndpoint
		}
		if c.Model == "" {
			c.Model = DefaultOllamaModel
		}
	}
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = DefaultConfig().TimeoutMs
	}
	return c
}

// Timeout returns the per-call bound.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Validate reports unsupported providers.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOllama:
		return nil
	default:
		return fmt.Errorf("unsupported llm provider %q", c.Provider)
	}
}
