// Package chatproxy forwards chat completion requests to LLM providers on
// behalf of the browser UI, which cannot call them directly because of CORS.
// The proxy is a pure pass-through: the upstream JSON body is returned
// verbatim.
package chatproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mrlokans/reader/internal/entities"
)

const (
	openAIChatURL    = "https://api.openai.com/v1/chat/completions"
	anthropicChatURL = "https://api.anthropic.com/v1/messages"

	anthropicVersion = "2023-06-01"

	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-3-5-sonnet-20240620"
	anthropicMaxTokens    = 1024

	defaultTimeout = 60 * time.Second
)

// ErrUnknownProvider is returned for providers outside openai/anthropic/custom.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrMissingBaseURL is returned when the custom provider is used without a
// full endpoint URL.
var ErrMissingBaseURL = errors.New("custom provider requires baseUrl")

// UpstreamError carries a non-2xx response from the provider so the handler
// can mirror the upstream status to the client.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Body)
}

// ProxyRequest is the browser's chat payload. Field names match the UI's
// localStorage settings, hence the camelCase keys.
type ProxyRequest struct {
	Provider string                 `json:"provider"`
	APIKey   string                 `json:"apiKey,omitempty"`
	BaseURL  string                 `json:"baseUrl,omitempty"`
	Model    string                 `json:"model,omitempty"`
	Messages []entities.ChatMessage `json:"messages"`
}

// Client forwards chat requests to the configured provider.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete sends the chat request to the provider and returns the upstream
// JSON response unmodified.
func (c *Client) Complete(ctx context.Context, req ProxyRequest) (json.RawMessage, error) {
	switch req.Provider {
	case "openai":
		body := map[string]any{
			"model":    req.Model,
			"messages": req.Messages,
		}
		if req.Model == "" {
			body["model"] = defaultOpenAIModel
		}
		headers := map[string]string{
			"Authorization": "Bearer " + req.APIKey,
		}
		return c.post(ctx, openAIChatURL, headers, body)

	case "anthropic":
		body := map[string]any{
			"model":      req.Model,
			"messages":   req.Messages,
			"max_tokens": anthropicMaxTokens,
		}
		if req.Model == "" {
			body["model"] = defaultAnthropicModel
		}
		headers := map[string]string{
			"x-api-key":         req.APIKey,
			"anthropic-version": anthropicVersion,
		}
		return c.post(ctx, anthropicChatURL, headers, body)

	case "custom":
		// OpenAI-compatible endpoints (LM Studio, Ollama, vLLM). The UI
		// supplies the full completions URL for maximum flexibility.
		if req.BaseURL == "" {
			return nil, ErrMissingBaseURL
		}
		body := map[string]any{
			"messages": req.Messages,
		}
		if req.Model != "" {
			body["model"] = req.Model
		}
		headers := map[string]string{}
		if req.APIKey != "" {
			headers["Authorization"] = "Bearer " + req.APIKey
		}
		return c.post(ctx, req.BaseURL, headers, body)

	default:
		return nil, ErrUnknownProvider
	}
}

func (c *Client) post(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return json.RawMessage(respBody), nil
}
