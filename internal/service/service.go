// Package service wires extraction, caching, summarization and chat into the
// operations the HTTP layer exposes.
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// Extractor turns a URL into plain text
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Summarizer produces the final summary of a document at a level
type Summarizer interface {
	Summarize(ctx context.Context, text string, level domain.Level) (string, error)
}

// Responder answers a chat message about a document
type Responder interface {
	Answer(ctx context.Context, docText string, history []domain.Turn, message string) (string, error)
}

// normalizeURL trims raw and requires an absolute http(s) URL
func normalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", fmt.Errorf("%w: paper url is required", domain.ErrInvalidRequest)
	}
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: please enter a valid http(s) URL", domain.ErrInvalidRequest)
	}
	return u, nil
}
