package llm

import "time"

// SystemPrompt is the fixed preamble sent ahead of every user message.
const SystemPrompt = "You are a helpful assistant."

// Message roles understood by chat completion APIs.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

const (
	defaultTimeout = 30 * time.Second
	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds parameters for chat completion requests.
// It is immutable once passed to NewClient.
type Config struct {
	// Endpoint is the full chat completions URL, e.g. https://openrouter.ai/api/v1/chat/completions.
	Endpoint string

	// APIKey is sent as a Bearer token and never logged.
	APIKey string

	// Model specifies the model identifier.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	MaxTokens int

	// Timeout bounds a single round trip. Defaults to 30s when zero.
	Timeout time.Duration

	// Temperature is omitted from the request when nil.
	Temperature *float64

	// Title is sent as the X-Title header when set.
	Title string
}
