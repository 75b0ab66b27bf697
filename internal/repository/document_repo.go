package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// SQLiteStore keeps documents and histories in a local sqlite file
type SQLiteStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens (and migrates) the database at path
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) fresh(updatedAt int64) bool {
	return s.ttl <= 0 || s.now().Sub(time.Unix(updatedAt, 0)) <= s.ttl
}

// GetDocument retrieves a document by URL
func (s *SQLiteStore) GetDocument(ctx context.Context, url string) (*domain.Document, error) {
	doc := &domain.Document{}
	var (
		summaries string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT url, text, summaries, fetched_at, updated_at
		FROM documents WHERE cache_key = ?
	`, DocumentKey(url)).Scan(&doc.URL, &doc.Text, &summaries, &doc.FetchedAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	if !s.fresh(updatedAt) {
		return nil, domain.ErrNotFound
	}

	if err := json.Unmarshal([]byte(summaries), &doc.Summaries); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	if doc.Summaries == nil {
		doc.Summaries = make(map[domain.Level]string)
	}
	return doc, nil
}

// PutDocument inserts or replaces a document
func (s *SQLiteStore) PutDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.URL == "" {
		return fmt.Errorf("%w: document without url", domain.ErrInvalidRequest)
	}
	summaries, err := json.Marshal(doc.Summaries)
	if err != nil {
		return fmt.Errorf("encode summaries: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (cache_key, url, text, summaries, fetched_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			text = excluded.text,
			summaries = excluded.summaries,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
	`, DocumentKey(doc.URL), doc.URL, doc.Text, string(summaries), doc.FetchedAt, s.now().Unix())
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document; missing rows are not an error
func (s *SQLiteStore) DeleteDocument(ctx context.Context, url string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE cache_key = ?`, DocumentKey(url)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
