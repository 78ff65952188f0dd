package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chatdemo/internal/contextutil"
)

// Client is a client for an OpenAI-compatible chat completions API.
// Each Chat call performs exactly one request and keeps no state between calls.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a new LLM client with its own http.Client bounded by cfg.Timeout.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return NewClientWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTPClient creates a new LLM client that sends requests through httpClient.
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		cfg:    cfg,
		client: httpClient,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Endpoint returns the configured chat completions URL.
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// ChatChoiceMessage represents the message in a chat choice.
// Content is a pointer so a missing field can be told apart from an empty reply.
type ChatChoiceMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int                `json:"index"`
	Message      *ChatChoiceMessage `json:"message"`
	FinishReason string             `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
// Only choices[0].message.content is read.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// NewChatRequest builds the payload for a single-turn exchange:
// the system preamble followed by the user's message.
func NewChatRequest(cfg Config, message string) ChatRequest {
	return ChatRequest{
		Model: cfg.Model,
		Messages: []Message{
			{Role: RoleSystem, Content: SystemPrompt},
			{Role: RoleUser, Content: message},
		},
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

// Chat sends a chat completion request to the LLM API and returns the reply text.
//
// A 200 response whose body lacks choices[0].message.content yields an empty
// reply and no error. Any other status, or a transport failure, yields a *Failure.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	body, err := json.Marshal(NewChatRequest(c.cfg, message))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", c.transportFailure(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.transportFailure(fmt.Errorf("failed to send request: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	truncated := len(raw) > maxResponseBytes
	if truncated {
		raw = raw[:maxResponseBytes]
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Failure{
			StatusCode: resp.StatusCode,
			Body:       c.redact(string(raw)),
		}
	}
	if err != nil {
		return "", c.transportFailure(fmt.Errorf("failed to read response: %w", err))
	}

	if truncated {
		logger.WarnContext(ctx, "completion response exceeded size limit", "limit_bytes", maxResponseBytes)
		return "", nil
	}

	reply, ok := extractReply(raw)
	if !ok {
		logger.WarnContext(ctx, "completion response missing choices[0].message.content", "body_length", len(raw))
	}
	return reply, nil
}

// extractReply returns choices[0].message.content from a response body.
// The second result is false if any level of that path is absent or malformed.
func extractReply(raw []byte) (string, bool) {
	var body ChatResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}
	if len(body.Choices) == 0 || body.Choices[0].Message == nil || body.Choices[0].Message.Content == nil {
		return "", false
	}
	return *body.Choices[0].Message.Content, true
}

func (c *Client) transportFailure(err error) *Failure {
	return &Failure{
		StatusCode: TransportStatus,
		Body:       c.redact(err.Error()),
		err:        err,
	}
}

// redact strips the API key from text that may be shown to a user.
func (c *Client) redact(s string) string {
	if c.cfg.APIKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.cfg.APIKey, "[REDACTED]")
}
