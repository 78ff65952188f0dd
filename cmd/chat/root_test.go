package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chatdemo/internal/config"
	"chatdemo/internal/llm"
	"chatdemo/internal/service"
	"chatdemo/internal/service/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		LLMEndpoint:  "https://example.com/v1/chat/completions",
		LLMAPIKey:    "sk-cli-test",
		LLMModelName: "gpt-4o-mini",
		LLMMaxTokens: 300,
	}
}

type runResult struct {
	stdout string
	stderr string
	err    error
	cfg    *config.Config
}

func run(t *testing.T, svc service.ChatService, stdin string, args ...string) runResult {
	t.Helper()

	var got *config.Config
	load := func() (*config.Config, error) { return testConfig(), nil }
	factory := func(cfg *config.Config) service.ChatService {
		got = cfg
		return svc
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(load, factory)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err, cfg: got}
}

func TestRootCmd_PrintsReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockChatService(ctrl)
	svc.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello there"}).
		Return(service.ChatResponse{Reply: "Hi there!"}, nil)

	res := run(t, svc, "", "Hello", "there")

	require.NoError(t, res.err)
	assert.Equal(t, "Hi there!\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRootCmd_ReadsStdin(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockChatService(ctrl)
	svc.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{Message: "from stdin"}).
		Return(service.ChatResponse{Reply: "ok"}, nil)

	res := run(t, svc, "from stdin\r\nsecond line\n")

	require.NoError(t, res.err)
	assert.Equal(t, "ok\n", res.stdout)
}

func TestRootCmd_EmptyMessageWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockChatService(ctrl)
	svc.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{Message: ""}).
		Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Message: service.EmptyMessageWarning})

	res := run(t, svc, "")

	require.ErrorIs(t, res.err, errReported)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Please enter a message.")
}

func TestRootCmd_FailureShowsStatusAndBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockChatService(ctrl)
	svc.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{Message: "Test"}).
		Return(service.ChatResponse{}, &service.ExternalError{Err: &llm.Failure{StatusCode: 500, Body: "server error"}})

	res := run(t, svc, "", "Test")

	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "Error 500: server error")
	assert.NotContains(t, res.stderr, "sk-cli-test")
}

func TestRootCmd_FlagOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockChatService(ctrl)
	svc.EXPECT().
		ProcessChat(gomock.Any(), gomock.Any()).
		Return(service.ChatResponse{Reply: "ok"}, nil)

	res := run(t, svc, "", "--model", "other-model", "--max-tokens", "42", "Hello")

	require.NoError(t, res.err)
	require.NotNil(t, res.cfg)
	assert.Equal(t, "other-model", res.cfg.LLMModelName)
	assert.Equal(t, 42, res.cfg.LLMMaxTokens)
}

func TestRootCmd_InvalidMaxTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockChatService(ctrl)

	res := run(t, svc, "", "--max-tokens", "0", "Hello")

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--max-tokens")
}

func TestRootCmd_ConfigError(t *testing.T) {
	cmd := newRootCmd(
		func() (*config.Config, error) { return nil, errors.New("LLM_API_KEY is required") },
		func(*config.Config) service.ChatService { return nil },
	)
	cmd.SetArgs([]string{"Hello"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY is required")
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "newline terminated", input: "hello\n", want: "hello"},
		{name: "crlf terminated", input: "hello\r\n", want: "hello"},
		{name: "no terminator", input: "hello", want: "hello"},
		{name: "empty", input: "", want: ""},
		{name: "only first line", input: "one\ntwo\n", want: "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLine(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
