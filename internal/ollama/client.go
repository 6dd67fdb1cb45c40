// Package ollama is a minimal client for a local Ollama server's generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"net/http"
	"strings"
)

// DefaultURL is the standard local Ollama endpoint.
const DefaultURL = "http://localhost:11434"

// minContext is the smallest num_ctx requested for a generation.
const minContext = 2048

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client talks to an Ollama server over HTTP. It requests non-streaming
// completions and blocks until the full response arrives.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a Client for the given server URL and model name.
// Deadlines come from the context passed to Generate; local inference can
// take many minutes, so no blanket client timeout is set here.
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}
}

// APIError is an error response from the Ollama server.
type APIError struct {
	Status  int
	Model   string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ollama (model %s): %s", e.Model, e.Message)
	}
	return fmt.Sprintf("ollama (model %s): status %d", e.Model, e.Status)
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate sends the prompt and returns the complete generated text. An
// unreachable server, an error status (including model-not-found), and an
// empty completion are all reported as errors.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.1,
			NumCtx:      contextWindow(prompt),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	var parsed generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode >= 400 {
		return "", &APIError{Status: resp.StatusCode, Model: c.model, Message: parsed.Error}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode ollama response: %w", decodeErr)
	}

	if strings.TrimSpace(parsed.Response) == "" {
		return "", errors.New("ollama returned an empty response")
	}

	return parsed.Response, nil
}

// contextWindow sizes num_ctx to the next power of two that fits the prompt
// plus room for the completion, estimating roughly three characters per token.
func contextWindow(prompt string) int {
	n := len(prompt) / 3 * 2
	if n < minContext {
		n = minContext
	}
	return 1 << bits.Len(uint(n-1))
}
