package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"chatdemo/internal/config"
	"chatdemo/internal/contextutil"
	"chatdemo/internal/llm"
	"chatdemo/internal/service"
)

// errReported signals that the failure was already shown to the user.
var errReported = errors.New("reported")

type serviceFactory func(cfg *config.Config) service.ChatService

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd(config.Load, newChatService).ExecuteContext(ctx)
}

func newChatService(cfg *config.Config) service.ChatService {
	return service.NewChatService(llm.NewClient(llm.Config{
		Endpoint:    cfg.LLMEndpoint,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModelName,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
		Temperature: cfg.LLMTemperature,
		Title:       cfg.LLMAppTitle,
	}))
}

func newRootCmd(load func() (*config.Config, error), newService serviceFactory) *cobra.Command {
	var (
		debug     bool
		model     string
		maxTokens int
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message to the completion service and print the reply",
		Long: "Send one message to the completion service and print the reply.\n" +
			"Without arguments the message is read as a single line from stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("model") {
				cfg.LLMModelName = model
			}
			if cmd.Flags().Changed("max-tokens") {
				if maxTokens <= 0 {
					return fmt.Errorf("--max-tokens must be greater than 0")
				}
				cfg.LLMMaxTokens = maxTokens
			}

			level := slog.LevelWarn
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx := contextutil.WithLogger(cmd.Context(), logger)

			message := strings.Join(args, " ")
			if len(args) == 0 {
				message, err = readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read message: %w", err)
				}
			}

			resp, err := newService(cfg).ProcessChat(ctx, service.ChatRequest{Message: message})
			if err != nil {
				logger.DebugContext(ctx, "chat failed", "error", err)
				fmt.Fprintln(cmd.ErrOrStderr(), service.UserMessage(err))
				return errReported
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Reply)
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&model, "model", "", "override LLM_MODEL for this call")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "override LLM_MAX_TOKENS for this call")
	return cmd
}

// readLine returns the first line of r without its line terminator.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
