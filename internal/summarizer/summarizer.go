// Package summarizer runs the map-reduce summary pipeline: one LLM call per
// chunk, then one call that merges the partial summaries.
package summarizer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/liliang-cn/askpaper/internal/chunker"
	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/llm"
	"github.com/liliang-cn/askpaper/internal/prompt"
)

// ChunkSummarizer summarizes a single chunk
type ChunkSummarizer struct {
	gen llm.Generator
}

// NewChunkSummarizer creates a chunk summarizer
func NewChunkSummarizer(gen llm.Generator) *ChunkSummarizer {
	return &ChunkSummarizer{gen: gen}
}

// Summarize makes exactly one LLM call
func (s *ChunkSummarizer) Summarize(ctx context.Context, chunk string, level domain.Level) (string, error) {
	return s.gen.Generate(ctx, []llm.Message{llm.UserMessage(prompt.Chunk(level, chunk))})
}

// Reducer merges ordered partial summaries into the final summary
type Reducer struct {
	gen llm.Generator
}

// NewReducer creates a reducer
func NewReducer(gen llm.Generator) *Reducer {
	return &Reducer{gen: gen}
}

// Reduce makes exactly one LLM call
func (r *Reducer) Reduce(ctx context.Context, partials []string, level domain.Level) (string, error) {
	return r.gen.Generate(ctx, []llm.Message{llm.UserMessage(prompt.Reduce(level, partials))})
}

// Service summarizes whole documents
type Service struct {
	chunker     *chunker.Chunker
	mapper      *ChunkSummarizer
	reducer     *Reducer
	concurrency int
	log         *zap.Logger
}

// NewService creates a summarizer service. concurrency bounds the number of
// chunk calls in flight; 1 keeps the map phase strictly sequential.
func NewService(gen llm.Generator, c *chunker.Chunker, concurrency int, log *zap.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		chunker:     c,
		mapper:      NewChunkSummarizer(gen),
		reducer:     NewReducer(gen),
		concurrency: concurrency,
		log:         log,
	}
}

// Summarize produces the final summary of text at level.
// The first failing chunk aborts the run and nothing partial is returned.
func (s *Service) Summarize(ctx context.Context, text string, level domain.Level) (string, error) {
	start := time.Now()
	chunks := s.chunker.Split(text)

	partials := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial, err := s.mapper.Summarize(gctx, chunk, level)
			if err != nil {
				return fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
			}
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	summary, err := s.reducer.Reduce(ctx, partials, level)
	if err != nil {
		return "", fmt.Errorf("reduce %d partials: %w", len(partials), err)
	}

	s.log.Info("document summarized",
		zap.String("level", level.String()),
		zap.Int("chunks", len(chunks)),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}
