package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/domain"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message *openAIMessage `json:"message"`
		Text    string         `json:"text"`
	} `json:"choices"`
}

type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIClient calls an OpenAI-compatible /chat/completions endpoint (OpenAI, Ollama, vLLM)
type OpenAIClient struct {
	client *resty.Client
	model  string
	log    *zap.Logger
}

// NewOpenAIClient creates an OpenAI-compatible client; apiKey may be empty for local servers
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration, log *zap.Logger) *OpenAIClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIClient{
		client: client,
		model:  model,
		log:    log.With(zap.String("provider", "openai"), zap.String("model", model)),
	}
}

// Generate sends the conversation and returns the assistant text
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	req := openAIRequest{Model: c.model, Messages: make([]openAIMessage, 0, len(messages))}
	for _, m := range messages {
		req.Messages = append(req.Messages, openAIMessage{Role: string(m.Role), Content: m.Text})
	}

	var (
		out     openAIResponse
		errBody openAIError
	)
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&errBody).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOracle, err)
	}
	if resp.IsError() {
		msg := errBody.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrOracle, resp.StatusCode(), msg)
	}

	c.log.Debug("openai call completed",
		zap.Int("messages", len(messages)),
		zap.Duration("elapsed", time.Since(start)),
	)

	detail := ""
	if len(out.Choices) == 0 {
		detail = "no choices"
	}
	return extractText(&out, detail,
		textStrategy[openAIResponse]{name: "message content", extract: func(r *openAIResponse) string {
			if len(r.Choices) == 0 || r.Choices[0].Message == nil {
				return ""
			}
			return r.Choices[0].Message.Content
		}},
		textStrategy[openAIResponse]{name: "completion text", extract: func(r *openAIResponse) string {
			if len(r.Choices) == 0 {
				return ""
			}
			return r.Choices[0].Text
		}},
	)
}
