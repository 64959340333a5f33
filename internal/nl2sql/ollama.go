package nl2sql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrModelUnavailable marks a failed call to the inference endpoint: the
// endpoint was unreachable or answered with a non-200 status. There is no
// retry and no backoff; a single attempt either succeeds or fails with this.
var ErrModelUnavailable = errors.New("model endpoint unavailable")

type OllamaConfig struct {
	BaseURL string
	Model   string
}

// OllamaTranslator converts natural language to SQL through Ollama's
// /api/generate endpoint with streaming disabled.
type OllamaTranslator struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaTranslator(cfg OllamaConfig) (*OllamaTranslator, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "llama3.2"
	}
	return &OllamaTranslator{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   model,
		// No client timeout: a hang on the endpoint hangs the request.
		// Cancellation, if any, comes from the caller's context.
		client: &http.Client{},
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (t *OllamaTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	prompt := BuildPrompt(req.SchemaText, req.NaturalLanguage)

	body, err := json.Marshal(generateRequest{Model: t.model, Prompt: prompt, Stream: false})
	if err != nil {
		return Result{}, fmt.Errorf("marshal generate payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response body: %v", ErrModelUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: status=%d body=%s", ErrModelUnavailable, resp.StatusCode, string(rawBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrModelUnavailable, err)
	}

	// The cleaned text is passed through unchanged even when it is not a
	// well-formed statement; a bad completion fails downstream at execution.
	return Result{
		SQL:   StripSQLFences(parsed.Response),
		Model: t.model,
	}, nil
}

// StripSQLFences removes surrounding whitespace and Markdown ```sql / ```
// fence markers from a model completion. Applying it to an already-clean
// statement is a no-op.
func StripSQLFences(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
