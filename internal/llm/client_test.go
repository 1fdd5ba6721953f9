package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.events = append(o.events, e)
}

func geminiConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.APIKey = "test-key"
	return cfg
}

func ollamaConfig(endpoint string) Config {
	return Config{Provider: ProviderOllama, Endpoint: endpoint}.WithDefaults()
}

func geminiReply(text string) geminiResponse {
	return geminiResponse{
		Candidates: []geminiCandidate{{
			Content:      geminiContent{Role: "model", Parts: []geminiPart{{Text: text}}},
			FinishReason: "STOP",
		}},
		ModelVersion: "gemini-3-flash-preview",
	}
}

func TestGeminiClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gen := req["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", gen["responseMimeType"])
		assert.NotNil(t, gen["responseJsonSchema"])
		contents := req["contents"].([]any)
		require.Len(t, contents, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiReply(`[]`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewGeminiClient(geminiConfig(srv.URL), obs)
	resp, err := client.Generate(context.Background(), Request{
		Prompt: "plan",
		Schema: &jsonschema.Schema{Type: "array"},
	})

	require.NoError(t, err)
	assert.Equal(t, `[]`, resp.Text)
	assert.Equal(t, "gemini-3-flash-preview", resp.Model)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, ProviderGemini, obs.events[0].Provider)
}

func TestGeminiClient_Generate_ConcatenatesParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := geminiResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: `[{"a":`}, {Text: `1}]`}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewGeminiClient(geminiConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, resp.Text)
}

func TestGeminiClient_Generate_SystemInstruction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "be brief", req.SystemInstruction.Parts[0].Text)
		assert.Empty(t, req.GenerationConfig.ResponseMIMEType)
		json.NewEncoder(w).Encode(geminiReply("ok"))
	}))
	defer srv.Close()

	client := NewGeminiClient(geminiConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), Request{SystemPrompt: "be brief", Prompt: "x"})
	require.NoError(t, err)
}

func TestGeminiClient_Generate_MissingKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := geminiConfig(srv.URL)
	cfg.APIKey = ""
	obs := &recordingObserver{}
	_, err := NewGeminiClient(cfg, obs).Generate(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, int32(0), calls.Load(), "no request without a key")
	require.Len(t, obs.events, 1)
	assert.Equal(t, "MISSING_CREDENTIAL", obs.events[0].ErrorCode)
}

func TestGeminiClient_Generate_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient(geminiConfig(srv.URL), NoopObserver{}).Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrProviderStatus)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiClient_Generate_Blocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient(geminiConfig(srv.URL), NoopObserver{}).Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrProviderStatus)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiClient_Generate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient(geminiConfig(srv.URL), NoopObserver{}).Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestGeminiClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := geminiConfig(srv.URL)
	cfg.TimeoutMs = 50
	obs := &recordingObserver{}
	_, err := NewGeminiClient(cfg, obs).Generate(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrTimeout)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "TIMEOUT", obs.events[0].ErrorCode)
}

func TestGeminiClient_Generate_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewGeminiClient(geminiConfig(srv.URL), NoopObserver{}).Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrProviderStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewGeminiClient(geminiConfig(srv.URL), nil).Available(context.Background()))

	cfg := geminiConfig(srv.URL)
	cfg.APIKey = ""
	assert.False(t, NewGeminiClient(cfg, nil).Available(context.Background()))
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		require.NotNil(t, req.Format)
		assert.Equal(t, "array", req.Format.Type)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: `[]`})
	}))
	defer srv.Close()

	client := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), Request{
		SystemPrompt: "system prompt",
		Prompt:       "user prompt",
		Schema:       &jsonschema.Schema{Type: "array"},
	})

	require.NoError(t, err)
	assert.Equal(t, `[]`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_Temperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Options)
		assert.Equal(t, 0.2, req.Options.Temperature)
		json.NewEncoder(w).Encode(ollamaResponse{Response: "ok"})
	}))
	defer srv.Close()

	cfg := ollamaConfig(srv.URL)
	temp := 0.2
	cfg.Temperature = &temp
	_, err := NewOllamaClient(cfg, nil).Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	obs := &recordingObserver{}
	client := NewOllamaClient(ollamaConfig("http://127.0.0.1:1"), obs) // nothing listening
	_, err := client.Generate(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "UNAVAILABLE", obs.events[0].ErrorCode)
}

func TestOllamaClient_Generate_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	_, err := NewOllamaClient(ollamaConfig(srv.URL), nil).Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrProviderStatus)
}

func TestOllamaClient_Generate_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOllamaClient(ollamaConfig(srv.URL), nil).Generate(ctx, Request{Prompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(ollamaConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(ollamaConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(Config{Provider: ProviderOllama}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ollamaClient{}, c)

	c, err = New(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &geminiClient{}, c)

	_, err = New(Config{Provider: "openai"}, nil)
	assert.Error(t, err)
}
