package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"chatdemo/internal/llm"
	"chatdemo/internal/render"
	"chatdemo/internal/service"
	"chatdemo/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func postForm(message string) *http.Request {
	form := url.Values{"message": {message}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPageHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name        string
		req         *http.Request
		mockSetup   func(*mocks.MockChatService)
		wantStatus  int
		contains    []string
		notContains []string
	}{
		{
			name:       "GET renders empty page",
			req:        httptest.NewRequest(http.MethodGet, "/", nil),
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusOK,
			contains:   []string{"<form method=\"post\"", "Model: test-model"},
			notContains: []string{
				`class="reply"`, `class="warning"`, `class="error"`,
			},
		},
		{
			name: "successful submit shows reply",
			req:  postForm("Hello"),
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{Reply: "Hi there!"}, nil)
			},
			wantStatus: http.StatusOK,
			contains:   []string{"<p>Hi there!</p>", `value="Hello"`},
		},
		{
			name: "empty submit shows warning",
			req:  postForm(""),
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: ""}).
					Return(service.ChatResponse{}, &service.ValidationError{
						Field:   "message",
						Message: service.EmptyMessageWarning,
					})
			},
			wantStatus:  http.StatusOK,
			contains:    []string{`class="warning"`, "Please enter a message."},
			notContains: []string{`class="reply"`},
		},
		{
			name: "remote failure shows status and body",
			req:  postForm("Test"),
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Test"}).
					Return(service.ChatResponse{}, &service.ExternalError{
						Err: &llm.Failure{StatusCode: 500, Body: "server error"},
					})
			},
			wantStatus:  http.StatusOK,
			contains:    []string{`class="error"`, "Error 500: server error"},
			notContains: []string{`class="reply"`},
		},
		{
			name: "user input is escaped",
			req:  postForm(`"><script>x</script>`),
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{Reply: "ok"}, nil)
			},
			wantStatus:  http.StatusOK,
			notContains: []string{"<script>x</script>"},
		},
		{
			name:       "method not allowed",
			req:        httptest.NewRequest(http.MethodDelete, "/", nil),
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewPageHandler(mockChatService, render.NewMarkdown(), "test-model")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, tt.req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			body := w.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("ServeHTTP() body missing %q", want)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(body, unwanted) {
					t.Errorf("ServeHTTP() body should not contain %q", unwanted)
				}
			}
		})
	}
}
