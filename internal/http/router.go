package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chatdemo/internal/handlers"
	"chatdemo/internal/render"
	"chatdemo/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService    service.ChatService
	Target         handlers.CompletionTarget
	Markdown       *render.Markdown
	// AllowedOrigins lists origins allowed to call the API cross-origin.
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// LoggerMiddleware runs first so later middleware and handlers share the request logger
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	markdown := deps.Markdown
	if markdown == nil {
		markdown = render.NewMarkdown()
	}
	var model string
	if deps.Target != nil {
		model = deps.Target.Model()
	}

	pageHandler := handlers.NewPageHandler(deps.ChatService, markdown, model)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.Target)

	r.Method(http.MethodGet, "/", pageHandler)
	r.Method(http.MethodPost, "/", pageHandler)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
