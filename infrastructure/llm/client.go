// Package llm talks to an OpenAI-compatible chat completions endpoint, such
// as a local LM Studio server.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sentinel/logging"
)

// Config holds the chat completions endpoint settings.
type Config struct {
	BaseURL     string        `env:"LLM_BASE_URL" default:"http://localhost:1234/v1"`
	Model       string        `env:"LLM_MODEL" default:"google/gemma-3-12b"`
	APIKey      string        `env:"LLM_API_KEY" default:"lm-studio"`
	Temperature float64       `env:"LLM_TEMPERATURE" default:"0"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS" default:"500"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" default:"120s"`
}

// DefaultConfig returns the settings for a stock local LM Studio install.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:1234/v1",
		Model:       "google/gemma-3-12b",
		APIKey:      "lm-studio",
		Temperature: 0,
		MaxTokens:   500,
		Timeout:     120 * time.Second,
	}
}

// ErrEmptyCompletion is returned when the server answers without choices.
var ErrEmptyCompletion = errors.New("llm: completion returned no choices")

// APIError is a non-2xx answer from the completions endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: HTTP %d: %s", e.StatusCode, e.Message)
}

// Client sends single-turn chat completions.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *logging.Logger
}

// NewClient creates a client. A nil httpClient gets one with the configured
// timeout.
func NewClient(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		config:     config,
		logger:     logging.Default().WithComponent("llm"),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a system and a user message and returns the content of the
// first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", readAPIError(resp)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("llm: decoding response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	c.logger.LLM("Completion received",
		"model", c.config.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(decoded.Choices[0].Message.Content))

	return decoded.Choices[0].Message.Content, nil
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
}

// readAPIError prefers the {"error":{"message":...}} shape and falls back to
// an excerpt of the raw body.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var wire struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wire) == nil && wire.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: wire.Error.Message}
	}

	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}
	return &APIError{StatusCode: resp.StatusCode, Message: excerpt}
}
