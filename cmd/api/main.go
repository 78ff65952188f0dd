package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"chatdemo/internal/config"
	"chatdemo/internal/http"
	"chatdemo/internal/llm"
	"chatdemo/internal/render"
	"chatdemo/internal/service"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	llmClient := llm.NewClient(llm.Config{
		Endpoint:    cfg.LLMEndpoint,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModelName,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
		Temperature: cfg.LLMTemperature,
		Title:       cfg.LLMAppTitle,
	})
	chatService := service.NewChatService(llmClient)

	router := http.NewRouter(&http.Deps{
		ChatService:    chatService,
		Target:         llmClient,
		Markdown:       render.NewMarkdown(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Leave room for one full completion round trip
		WriteTimeout: cfg.LLMTimeout + 10*time.Second,
	}

	slog.Info("Starting API server", "addr", server.Addr)
	slog.Debug("LLM configuration", "endpoint", cfg.LLMEndpoint, "model", cfg.LLMModelName, "max_tokens", cfg.LLMMaxTokens, "timeout", cfg.LLMTimeout)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
