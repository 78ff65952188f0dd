package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"chatdemo/internal/contextutil"
	"chatdemo/internal/render"
	"chatdemo/internal/service"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// PageHandler serves the chat page and handles its form submissions.
type PageHandler struct {
	chatService service.ChatService
	markdown    *render.Markdown
	model       string
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(chatService service.ChatService, markdown *render.Markdown, model string) *PageHandler {
	return &PageHandler{
		chatService: chatService,
		markdown:    markdown,
		model:       model,
	}
}

// pageData is the view model for templates/index.html.
type pageData struct {
	Model    string
	Message  string
	Warning  string
	Error    string
	Answered bool
	Reply    template.HTML
}

// ServeHTTP renders the page on GET and runs one chat exchange on POST.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	data := pageData{Model: h.model}

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "invalid form body", "error", err)
			http.Error(w, "Invalid form body", http.StatusBadRequest)
			return
		}
		data.Message = r.PostFormValue("message")
		h.submit(r, &data)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to render page", "error", err)
	}
}

// submit fills data with the reply, the empty-input warning or the failure text.
func (h *PageHandler) submit(r *http.Request, data *pageData) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	resp, err := h.chatService.ProcessChat(ctx, service.ChatRequest{Message: data.Message})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			data.Warning = service.UserMessage(err)
			return
		}
		data.Error = service.UserMessage(err)
		return
	}

	reply, err := h.markdown.ToHTML(resp.Reply)
	if err != nil {
		logger.WarnContext(ctx, "falling back to plain reply", "error", err)
		reply = template.HTML(template.HTMLEscapeString(resp.Reply))
	}
	data.Answered = true
	data.Reply = reply
}
