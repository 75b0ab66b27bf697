// Package repository caches extracted papers and chat histories.
package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// Key prefixes shared by every backend
const (
	DocumentPrefix = "paper_cache/"
	HistoryPrefix  = "chat_cache/"
)

// DocumentStore caches documents by source URL. A miss is domain.ErrNotFound.
type DocumentStore interface {
	GetDocument(ctx context.Context, url string) (*domain.Document, error)
	PutDocument(ctx context.Context, doc *domain.Document) error
	DeleteDocument(ctx context.Context, url string) error
}

// HistoryStore keeps the chat turns of one session about one document.
// A miss is domain.ErrNotFound.
type HistoryStore interface {
	GetHistory(ctx context.Context, sessionID, url string) ([]domain.Turn, error)
	PutHistory(ctx context.Context, sessionID, url string, turns []domain.Turn) error
	DeleteHistory(ctx context.Context, sessionID, url string) error
}

// Store is a backend holding both
type Store interface {
	DocumentStore
	HistoryStore
	Close() error
}

// DocumentKey is the cache key of a document
func DocumentKey(url string) string {
	return DocumentPrefix + digest(url)
}

// HistoryKey is the cache key of a (session, document) history
func HistoryKey(sessionID, url string) string {
	return HistoryPrefix + digest(sessionID+":"+url)
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
