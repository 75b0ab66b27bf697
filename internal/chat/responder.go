// Package chat answers questions about a paper, grounded in its extracted text.
package chat

import (
	"context"

	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/llm"
	"github.com/liliang-cn/askpaper/internal/prompt"
)

// DefaultMaxContextChars is how much of the paper goes into the grounding instruction
const DefaultMaxContextChars = 60000

// Responder builds the chat conversation and asks the LLM for the next turn
type Responder struct {
	gen             llm.Generator
	maxContextChars int
}

// NewResponder creates a responder; maxContextChars <= 0 uses the default
func NewResponder(gen llm.Generator, maxContextChars int) *Responder {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	return &Responder{gen: gen, maxContextChars: maxContextChars}
}

// Answer makes one LLM call. The conversation is the grounding instruction,
// then history in order, then message.
func (r *Responder) Answer(ctx context.Context, docText string, history []domain.Turn, message string) (string, error) {
	return r.gen.Generate(ctx, r.Messages(docText, history, message))
}

// Messages returns the conversation Answer sends
func (r *Responder) Messages(docText string, history []domain.Turn, message string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.UserMessage(prompt.Chat(truncate(docText, r.maxContextChars))))
	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: t.Role, Text: t.Text})
	}
	return append(msgs, llm.UserMessage(message))
}

// truncate keeps the first n runes of s
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
