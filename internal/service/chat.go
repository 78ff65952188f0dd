package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks chatdemo/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService chatdemo/internal/service ChatService

import (
	"context"
	"strings"

	"chatdemo/internal/contextutil"
)

// EmptyMessageWarning is shown when the user submits nothing but whitespace.
const EmptyMessageWarning = "Please enter a message."

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a message to the LLM and returns the reply.
	Chat(ctx context.Context, message string) (string, error)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string `validate:"required"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply string
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat validates the request and performs one completion round trip.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	llmClient LLMClient
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient) ChatService {
	return &chatService{
		llmClient: llmClient,
	}
}

// ProcessChat processes a chat request.
// Blank input is rejected with a *ValidationError before the LLM client is called.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Message) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: EmptyMessageWarning,
		}
	}

	reply, err := s.llmClient.Chat(ctx, req.Message)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return ChatResponse{}, WrapError(&ExternalError{Err: err}, "failed to get LLM response")
	}

	logger.InfoContext(ctx, "chat request processed successfully", "message_length", len(req.Message), "reply_length", len(reply))
	return ChatResponse{
		Reply: reply,
	}, nil
}
