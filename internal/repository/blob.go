package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// blobs is a flat key/value backend holding JSON values
type blobs interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte) error
	del(ctx context.Context, key string) error
	close() error
}

type historyRecord struct {
	SessionID string        `json:"session_id"`
	URL       string        `json:"url"`
	Turns     []domain.Turn `json:"history"`
}

// blobStore implements Store over any blobs backend
type blobStore struct {
	b blobs
}

func (s *blobStore) GetDocument(ctx context.Context, url string) (*domain.Document, error) {
	raw, err := s.b.get(ctx, DocumentKey(url))
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", url, err)
	}
	if doc.Summaries == nil {
		doc.Summaries = make(map[domain.Level]string)
	}
	return &doc, nil
}

func (s *blobStore) PutDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.URL == "" {
		return fmt.Errorf("%w: document without url", domain.ErrInvalidRequest)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.URL, err)
	}
	return s.b.set(ctx, DocumentKey(doc.URL), raw)
}

func (s *blobStore) DeleteDocument(ctx context.Context, url string) error {
	return s.b.del(ctx, DocumentKey(url))
}

func (s *blobStore) GetHistory(ctx context.Context, sessionID, url string) ([]domain.Turn, error) {
	raw, err := s.b.get(ctx, HistoryKey(sessionID, url))
	if err != nil {
		return nil, err
	}
	var rec historyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return rec.Turns, nil
}

func (s *blobStore) PutHistory(ctx context.Context, sessionID, url string, turns []domain.Turn) error {
	raw, err := json.Marshal(historyRecord{SessionID: sessionID, URL: url, Turns: turns})
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return s.b.set(ctx, HistoryKey(sessionID, url), raw)
}

func (s *blobStore) DeleteHistory(ctx context.Context, sessionID, url string) error {
	return s.b.del(ctx, HistoryKey(sessionID, url))
}

func (s *blobStore) Close() error {
	return s.b.close()
}
