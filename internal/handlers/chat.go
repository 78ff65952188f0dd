package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"chatdemo/internal/contextutil"
	"chatdemo/internal/llm"
	"chatdemo/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse represents an error response.
// StatusCode and Body echo the completion service's answer when it failed;
// StatusCode is 0 if the service could not be reached.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode *int   `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, service.ChatRequest{
		Message: req.Message,
	})
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{Reply: svcResp.Reply}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *ChatHandler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	resp := ErrorResponse{Error: service.UserMessage(err)}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.InfoContext(ctx, "rejected chat request", "field", validationErr.Field)
		h.writeError(w, http.StatusBadRequest, resp)
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	var failure *llm.Failure
	if errors.As(err, &failure) {
		statusCode := failure.StatusCode
		resp.StatusCode = &statusCode
		resp.Body = failure.Body
		h.writeError(w, http.StatusBadGateway, resp)
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		h.writeError(w, http.StatusBadGateway, resp)
		return
	}

	h.writeError(w, http.StatusInternalServerError, resp)
}

// writeError writes an error response.
func (h *ChatHandler) writeError(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
