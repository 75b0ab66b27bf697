// Package llm holds the oracle clients the summarizer and chat responder call.
package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/config"
	"github.com/liliang-cn/askpaper/internal/domain"
)

// Message is one entry of a prompt, in provider-agnostic form
type Message struct {
	Role domain.Role
	Text string
}

// UserMessage builds a user-role message
func UserMessage(text string) Message {
	return Message{Role: domain.RoleUser, Text: text}
}

// Generator is the LLM oracle: an ordered conversation in, one text out
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, messages []Message) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// New creates the configured provider client
func New(cfg config.LLMConfig, log *zap.Logger) (Generator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	switch cfg.Provider {
	case config.ProviderGemini, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini api key not configured (llm.api_key, GEMINI_API_KEY or llm.api_key_file)")
		}
		return NewGeminiClient(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout, log), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout, log), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
