package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/repository"
)

// PaperService extracts, caches and summarizes papers
type PaperService struct {
	docs         repository.DocumentStore
	extractor    Extractor
	summarizer   Summarizer
	minTextChars int
	log          *zap.Logger
}

// NewPaperService creates a new paper service
func NewPaperService(
	docs repository.DocumentStore,
	extractor Extractor,
	summarizer Summarizer,
	minTextChars int,
	log *zap.Logger,
) *PaperService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaperService{
		docs:         docs,
		extractor:    extractor,
		summarizer:   summarizer,
		minTextChars: minTextChars,
		log:          log,
	}
}

// Summarize returns the summary of the paper at rawURL for level, reusing
// cached text and summaries.
func (s *PaperService) Summarize(ctx context.Context, rawURL string, level domain.Level) (*domain.SummarizeResponse, error) {
	paperURL, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	log := s.log.With(zap.String("url", paperURL), zap.String("level", level.String()))

	doc := s.cached(ctx, paperURL)
	if summary, ok := doc.Summary(level); ok {
		log.Debug("summary served from cache")
		return &domain.SummarizeResponse{Success: true, PaperURL: paperURL, Level: level, Summary: summary, Cached: true}, nil
	}

	if doc == nil {
		if doc, err = s.extract(ctx, paperURL); err != nil {
			log.Warn("extraction failed", zap.Error(err))
			return nil, err
		}
		s.save(ctx, doc)
	}

	summary, err := s.summarizer.Summarize(ctx, doc.Text, level)
	if err != nil {
		log.Error("summarization failed", zap.Error(err))
		return nil, err
	}
	s.save(ctx, doc.WithSummary(level, summary))

	return &domain.SummarizeResponse{Success: true, PaperURL: paperURL, Level: level, Summary: summary}, nil
}

// Document returns the cached document for rawURL
func (s *PaperService) Document(ctx context.Context, rawURL string) (*domain.Document, error) {
	paperURL, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	return s.docs.GetDocument(ctx, paperURL)
}

// Purge drops the cached document so the next request extracts it again
func (s *PaperService) Purge(ctx context.Context, rawURL string) error {
	paperURL, err := normalizeURL(rawURL)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteDocument(ctx, paperURL); err != nil {
		return fmt.Errorf("purge %s: %w", paperURL, err)
	}
	s.log.Info("document purged", zap.String("url", paperURL))
	return nil
}

func (s *PaperService) extract(ctx context.Context, paperURL string) (*domain.Document, error) {
	text, err := s.extractor.Extract(ctx, paperURL)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < s.minTextChars {
		return nil, fmt.Errorf("%w: got %d characters, need %d", domain.ErrTextTooShort, n, s.minTextChars)
	}
	return domain.NewDocument(paperURL, text), nil
}

// cached returns nil on a miss; store failures are logged and treated as one
func (s *PaperService) cached(ctx context.Context, paperURL string) *domain.Document {
	doc, err := s.docs.GetDocument(ctx, paperURL)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("document cache read failed", zap.String("url", paperURL), zap.Error(err))
		}
		return nil
	}
	return doc
}

func (s *PaperService) save(ctx context.Context, doc *domain.Document) {
	if err := s.docs.PutDocument(ctx, doc); err != nil {
		s.log.Warn("document cache write failed", zap.String("url", doc.URL), zap.Error(err))
	}
}
