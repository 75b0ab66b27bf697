package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/askpaper/internal/config"
	"github.com/liliang-cn/askpaper/internal/domain"
)

func TestOpenAIGenerate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"message content", http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"<p>a</p>"}}]}`, "<p>a</p>", nil},
		{"legacy text", http.StatusOK, `{"choices":[{"text":"<p>b</p>"}]}`, "<p>b</p>", nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, "", domain.ErrUnrecognizedResponse},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, "", domain.ErrOracle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

				var req openAIRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "qwen", req.Model)
				assert.Equal(t, "assistant", req.Messages[1].Role)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOpenAIClient(srv.URL, "key", "qwen", 5*time.Second, nil)
			out, err := c.Generate(context.Background(), []Message{
				UserMessage("q"),
				{Role: domain.RoleAssistant, Text: "a"},
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNewProvider(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: config.ProviderGemini}, nil)
	assert.Error(t, err, "gemini needs a key")

	g, err := New(config.LLMConfig{Provider: config.ProviderGemini, APIKey: "k", Model: "m"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, g)

	g, err = New(config.LLMConfig{Provider: config.ProviderOpenAI, BaseURL: "http://localhost:11434/v1"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, g)

	_, err = New(config.LLMConfig{Provider: "bard"}, nil)
	assert.Error(t, err)
}
