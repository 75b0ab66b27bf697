package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// GetHistory retrieves the turns of a session about a document
func (s *SQLiteStore) GetHistory(ctx context.Context, sessionID, url string) ([]domain.Turn, error) {
	var (
		raw       string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT turns, updated_at FROM histories WHERE cache_key = ?
	`, HistoryKey(sessionID, url)).Scan(&raw, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	if !s.fresh(updatedAt) {
		return nil, domain.ErrNotFound
	}

	var turns []domain.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return turns, nil
}

// PutHistory replaces the stored turns
func (s *SQLiteStore) PutHistory(ctx context.Context, sessionID, url string, turns []domain.Turn) error {
	raw, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO histories (cache_key, session_id, url, turns, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			turns = excluded.turns,
			updated_at = excluded.updated_at
	`, HistoryKey(sessionID, url), sessionID, url, string(raw), s.now().Unix())
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// DeleteHistory removes the stored turns
func (s *SQLiteStore) DeleteHistory(ctx context.Context, sessionID, url string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM histories WHERE cache_key = ?`, HistoryKey(sessionID, url)); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
