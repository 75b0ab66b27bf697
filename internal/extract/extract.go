// Package extract turns a paper URL into plain text: arXiv abstract pages are
// rewritten to their PDF, PDFs are parsed with ledongthuc/pdf and everything
// else is treated as HTML.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/config"
	"github.com/liliang-cn/askpaper/internal/domain"
)

const defaultUserAgent = "Mozilla/5.0 (PaperSummarizerBot)"

var (
	arxivAbs = regexp.MustCompile(`^https?://arxiv\.org/abs/([\w.-]+)`)
	arxivPDF = regexp.MustCompile(`^https?://arxiv\.org/pdf/([\w.-]+)\.pdf`)
)

// Extractor downloads papers and extracts their text
type Extractor struct {
	client   *resty.Client
	maxBytes int64
	log      *zap.Logger
}

// New creates an extractor
func New(cfg config.ExtractConfig, log *zap.Logger) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", ua).
			SetRetryCount(0),
		maxBytes: cfg.MaxBytes,
		log:      log,
	}
}

// Extract fetches url and returns its text
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	target, forcePDF := resolve(url)

	body, contentType, err := e.fetch(ctx, target)
	if err != nil {
		return "", err
	}

	var text string
	if forcePDF || isPDF(contentType, body) {
		text, err = pdfText(body)
	} else {
		text, err = htmlText(body, contentType)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtraction, target, err)
	}

	e.log.Info("paper text extracted",
		zap.String("url", url),
		zap.String("fetched", target),
		zap.String("content_type", contentType),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// resolve maps arXiv abstract pages to their PDF and reports whether the
// target is known to be a PDF without looking at the response.
func resolve(url string) (string, bool) {
	if m := arxivAbs.FindStringSubmatch(url); m != nil {
		return "https://arxiv.org/pdf/" + m[1] + ".pdf", true
	}
	if arxivPDF.MatchString(url) {
		return url, true
	}
	return url, strings.HasSuffix(strings.ToLower(url), ".pdf")
}

func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetch %s: %v", domain.ErrExtraction, url, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		return nil, "", fmt.Errorf("%w: fetch %s: status %d", domain.ErrExtraction, url, resp.StatusCode())
	}

	var r io.Reader = raw
	if e.maxBytes > 0 {
		r = io.LimitReader(raw, e.maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read %s: %v", domain.ErrExtraction, url, err)
	}
	if e.maxBytes > 0 && int64(len(body)) > e.maxBytes {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrExtraction, url, e.maxBytes)
	}
	return body, resp.Header().Get("Content-Type"), nil
}

func isPDF(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	if bytes.HasPrefix(body, []byte("%PDF-")) {
		return true
	}
	return mimetype.Detect(body).Is("application/pdf")
}
