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

const geminiRoleModel = "model"

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content"`
	FinishReason string         `json:"finishReason,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiClient calls the generateContent REST endpoint
type GeminiClient struct {
	client *resty.Client
	apiKey string
	model  string
	log    *zap.Logger
}

// NewGeminiClient creates a Gemini client. No retries: a failed call is reported to the caller as is.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration, log *zap.Logger) *GeminiClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiClient{
		client: client,
		apiKey: apiKey,
		model:  model,
		log:    log.With(zap.String("provider", "gemini"), zap.String("model", model)),
	}
}

// Generate sends the conversation and returns the model text
func (c *GeminiClient) Generate(ctx context.Context, messages []Message) (string, error) {
	req := geminiRequest{Contents: make([]geminiContent, 0, len(messages))}
	for _, m := range messages {
		req.Contents = append(req.Contents, geminiContent{
			Role:  geminiRole(m.Role),
			Parts: []geminiPart{{Text: m.Text}},
		})
	}

	var (
		out     geminiResponse
		errBody geminiError
	)
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetPathParam("model", c.model).
		SetBody(req).
		SetResult(&out).
		SetError(&errBody).
		Post("/models/{model}:generateContent")
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

	c.log.Debug("gemini call completed",
		zap.Int("messages", len(messages)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return extractText(&out, geminiDetail(&out),
		textStrategy[geminiResponse]{name: "first candidate parts", extract: geminiFirstCandidate},
		textStrategy[geminiResponse]{name: "any candidate part", extract: geminiAnyPart},
	)
}

func geminiRole(r domain.Role) string {
	if r == domain.RoleAssistant {
		return geminiRoleModel
	}
	return string(domain.RoleUser)
}

func geminiFirstCandidate(r *geminiResponse) string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func geminiAnyPart(r *geminiResponse) string {
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}

func geminiDetail(r *geminiResponse) string {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + r.PromptFeedback.BlockReason
	}
	if len(r.Candidates) > 0 && r.Candidates[0].FinishReason != "" {
		return "finish reason: " + r.Candidates[0].FinishReason
	}
	if len(r.Candidates) == 0 {
		return "no candidates"
	}
	return ""
}
