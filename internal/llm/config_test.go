package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultGeminiEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultGeminiModel, cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.Timeout())

	cfg = Config{Provider: ProviderOllama, Model: "qwen2.5", TimeoutMs: 1500}.WithDefaults()
	assert.Equal(t, DefaultOllamaEndpoint, cfg.Endpoint)
	assert.Equal(t, "qwen2.5", cfg.Model)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Provider: ProviderGemini}.Validate())
	assert.NoError(t, Config{Provider: ProviderOllama}.Validate())
	assert.Error(t, Config{Provider: "mystery"}.Validate())
}
