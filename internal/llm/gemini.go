package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// geminiClient implements Client using the Gemini generateContent REST API.
type geminiClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewGeminiClient creates a Client for the Gemini API.
func NewGeminiClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &geminiClient{
		cfg:      cfg,
		http:     newHTTPClient(),
		observer: observer,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType   string             `json:"responseMimeType,omitempty"`
	ResponseJSONSchema *jsonschema.Schema `json:"responseJsonSchema,omitempty"`
	Temperature        *float64           `json:"temperature,omitempty"`
}

// geminiRequest is the JSON body sent to models/{model}:generateContent.
type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// geminiResponse is the JSON body returned by generateContent.
type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	ModelVersion string `json:"modelVersion"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *geminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if c.cfg.APIKey == "" {
		observe(c.observer, c.cfg, start, ErrMissingCredential)
		return nil, ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature: c.cfg.Temperature,
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseMIMEType = "application/json"
		body.GenerationConfig.ResponseJSONSchema = req.Schema
	}

	resp, err := c.doRequest(ctx, body)
	if err == nil {
		err = resp.check()
	}
	if err != nil {
		err = classify(ctx, err)
		observe(c.observer, c.cfg, start, err)
		return nil, err
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.cfg.Model
	}
	latency := observe(c.observer, c.cfg, start, nil)
	return &Response{
		Text:      resp.text(),
		Model:     model,
		LatencyMs: latency,
	}, nil
}

func (c *geminiClient) modelURL() string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + "/v1beta/models/" + url.PathEscape(c.cfg.Model)
}

func (c *geminiClient) doRequest(ctx context.Context, body geminiRequest) (*geminiResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL()+":generateContent", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr geminiErrorBody
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: status %d %s: %s", ErrProviderStatus, httpResp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderStatus, httpResp.StatusCode, string(respBody))
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response envelope: %v", ErrInvalidOutput, err)
	}
	return &resp, nil
}

// check rejects replies that carry no usable candidate.
func (r *geminiResponse) check() error {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: prompt blocked: %s", ErrProviderStatus, r.PromptFeedback.BlockReason)
	}
	if len(r.Candidates) == 0 {
		return fmt.Errorf("%w: no candidates in response", ErrInvalidOutput)
	}
	if r.text() == "" {
		return fmt.Errorf("%w: empty candidate (finish reason %s)", ErrInvalidOutput, r.Candidates[0].FinishReason)
	}
	return nil
}

// text concatenates the text parts of the first candidate.
func (r *geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func (c *geminiClient) Available(ctx context.Context) bool {
	if c.cfg.APIKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
