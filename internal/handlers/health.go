package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"chatdemo/internal/contextutil"
)

// CompletionTarget describes the configured completion service without exposing credentials.
type CompletionTarget interface {
	Model() string
	Endpoint() string
}

// HealthHandler handles HTTP requests for health checks.
// It never contacts the completion service, so each chat submit stays the only outbound call.
type HealthHandler struct {
	target CompletionTarget
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(target CompletionTarget) *HealthHandler {
	return &HealthHandler{
		target: target,
		now:    time.Now,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Model is the configured completion model.
	Model string `json:"model,omitempty"`

	// EndpointHost is the host of the completion endpoint.
	EndpointHost string `json:"endpoint_host,omitempty"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	var issues []string

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if h.target == nil {
		checks["llm_config"] = "error"
		issues = append(issues, "llm_not_configured")
	} else {
		response.Model = h.target.Model()
		endpoint, err := url.Parse(h.target.Endpoint())
		if err != nil || endpoint.Host == "" {
			checks["llm_config"] = "error"
			issues = append(issues, "llm_endpoint_invalid")
		} else {
			checks["llm_config"] = "ok"
			response.EndpointHost = endpoint.Host
		}
	}

	httpStatus := http.StatusOK
	if len(issues) > 0 {
		response.Status = "unhealthy"
		response.Issues = issues
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
