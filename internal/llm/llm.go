// Package llm is a minimal client for the Anthropic Messages API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gorewood/gy/internal/output"
)

// DefaultModel is used when no model is configured. It is also the model
// used to validate API keys.
const DefaultModel = "claude-haiku-4-5-20251001"

// defaultBaseURL is the Anthropic API root; ANTHROPIC_BASE_URL overrides it.
const defaultBaseURL = "https://api.anthropic.com"

// Request represents a completion request.
type Request struct {
	System    string // System prompt
	Prompt    string // User prompt
	MaxTokens int    // Max tokens (0 uses default)
}

// Response represents a completion response.
type Response struct {
	Content string // Generated text
	Model   string // Model used
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client sends requests to the Messages API with a single key and model.
type Client struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// New creates a client for the given key and model.
// Model accepts aliases such as "haiku" or "claude-sonnet"; unknown names
// are passed through unchanged. An empty model selects DefaultModel.
func New(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, output.NewUserError("no Anthropic API key configured; set ANTHROPIC_API_KEY or run 'gy auth login'")
	}

	return &Client{
		model:   ResolveModel(model),
		apiKey:  apiKey,
		baseURL: BaseURL(),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// WithHTTPClient replaces the HTTP transport. Returns the client for chaining.
func (c *Client) WithHTTPClient(doer HTTPDoer) *Client {
	c.httpClient = doer
	return c
}

// Model returns the resolved model identifier.
func (c *Client) Model() string {
	return c.model
}

// BaseURL returns the API root, honoring ANTHROPIC_BASE_URL.
func BaseURL() string {
	if url := os.Getenv("ANTHROPIC_BASE_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return defaultBaseURL
}

// modelAliases are shorthands; full model names are passed through.
var modelAliases = map[string]string{
	"haiku":  "claude-haiku-4-5-20251001",
	"sonnet": "claude-sonnet-4-5-20250929",
	"opus":   "claude-opus-4-6",
}

// ResolveModel expands shorthand aliases, including "claude-" and
// "anthropic-" prefixed forms like "claude-haiku".
func ResolveModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return DefaultModel
	}

	lower := strings.ToLower(model)
	for _, prefix := range []string{"claude-", "anthropic-"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok {
			if resolved, ok := modelAliases[rest]; ok {
				return resolved
			}
		}
	}
	if resolved, ok := modelAliases[lower]; ok {
		return resolved
	}
	return model
}

// ModelAliases returns a copy of the alias table.
func ModelAliases() map[string]string {
	aliases := make(map[string]string, len(modelAliases))
	for alias, model := range modelAliases {
		aliases[alias] = model
	}
	return aliases
}

// apiErrorBody is the error envelope returned by the API.
type apiErrorBody struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	log.Debug("sending API request", "url", url, "bytes", len(jsonBody))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("API request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}
	log.Debug("received API response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// statusError builds the error for a non-200 response. The API's own error
// message is preferred; otherwise the body is included, truncated to 500 bytes.
// Authentication failures are user errors.
func statusError(status int, body []byte) *output.ExitError {
	var msg string
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		msg = "API error: " + parsed.Error.Message
	} else {
		errBody := string(body)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		msg = fmt.Sprintf("API error (status %d): %s", status, errBody)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return output.NewUserError(msg)
	}
	return output.NewSystemError(msg)
}
