package llm

import (
	"fmt"
	"strings"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// textStrategy pulls answer text out of one response shape
type textStrategy[T any] struct {
	name    string
	extract func(*T) string
}

// extractText tries each strategy in order and returns the first non-blank text.
// detail is appended to the error when every strategy comes up empty.
func extractText[T any](resp *T, detail string, strategies ...textStrategy[T]) (string, error) {
	tried := make([]string, 0, len(strategies))
	for _, s := range strategies {
		if text := s.extract(resp); strings.TrimSpace(text) != "" {
			return text, nil
		}
		tried = append(tried, s.name)
	}
	msg := "tried " + strings.Join(tried, ", ")
	if detail != "" {
		msg += "; " + detail
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnrecognizedResponse, msg)
}
