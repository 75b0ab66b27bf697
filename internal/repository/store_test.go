package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/askpaper/internal/config"
	"github.com/liliang-cn/askpaper/internal/domain"
)

const paperURL = "https://arxiv.org/abs/2301.00001"

func TestKeys(t *testing.T) {
	// md5("https://arxiv.org/abs/2301.00001") and md5("s1:" + url)
	assert.Regexp(t, `^paper_cache/[0-9a-f]{32}$`, DocumentKey(paperURL))
	assert.Regexp(t, `^chat_cache/[0-9a-f]{32}$`, HistoryKey("s1", paperURL))
	assert.Equal(t, "paper_cache/"+digest(paperURL), DocumentKey(paperURL))
	assert.Equal(t, "chat_cache/"+digest("s1:"+paperURL), HistoryKey("s1", paperURL))
	assert.NotEqual(t, HistoryKey("s1", paperURL), HistoryKey("s2", paperURL))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", digest(""))
}

func TestExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, expired(now.Add(-time.Hour), 0, now))
	assert.False(t, expired(time.Time{}, time.Minute, now))
	assert.False(t, expired(now.Add(-30*time.Second), time.Minute, now))
	assert.True(t, expired(now.Add(-2*time.Minute), time.Minute, now))
}

// exerciseStore runs the shared contract against a backend
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("document miss", func(t *testing.T) {
		_, err := s.GetDocument(ctx, "https://example.org/none")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("document round trip", func(t *testing.T) {
		doc := domain.NewDocument(paperURL, "full text").WithSummary(domain.LevelLow, "<p>low</p>")
		require.NoError(t, s.PutDocument(ctx, doc))

		got, err := s.GetDocument(ctx, paperURL)
		require.NoError(t, err)
		assert.Equal(t, "full text", got.Text)
		assert.Equal(t, map[domain.Level]string{domain.LevelLow: "<p>low</p>"}, got.Summaries)
		assert.WithinDuration(t, doc.FetchedAt, got.FetchedAt, time.Second)

		// later levels replace the entry
		require.NoError(t, s.PutDocument(ctx, got.WithSummary(domain.LevelHigh, "<p>high</p>")))
		got, err = s.GetDocument(ctx, paperURL)
		require.NoError(t, err)
		assert.Len(t, got.Summaries, 2)
	})

	t.Run("document delete", func(t *testing.T) {
		require.NoError(t, s.DeleteDocument(ctx, paperURL))
		_, err := s.GetDocument(ctx, paperURL)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, s.DeleteDocument(ctx, paperURL))
	})

	t.Run("reject document without url", func(t *testing.T) {
		assert.ErrorIs(t, s.PutDocument(ctx, &domain.Document{}), domain.ErrInvalidRequest)
	})

	t.Run("history", func(t *testing.T) {
		_, err := s.GetHistory(ctx, "s1", paperURL)
		require.ErrorIs(t, err, domain.ErrNotFound)

		turns := []domain.Turn{
			{Role: domain.RoleUser, Text: "q"},
			{Role: domain.RoleAssistant, Text: "a"},
		}
		require.NoError(t, s.PutHistory(ctx, "s1", paperURL, turns))

		got, err := s.GetHistory(ctx, "s1", paperURL)
		require.NoError(t, err)
		assert.Equal(t, turns, got)

		_, err = s.GetHistory(ctx, "s2", paperURL)
		assert.ErrorIs(t, err, domain.ErrNotFound, "sessions are isolated")

		require.NoError(t, s.PutHistory(ctx, "s1", paperURL, turns[:1]))
		got, err = s.GetHistory(ctx, "s1", paperURL)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		require.NoError(t, s.DeleteHistory(ctx, "s1", paperURL))
		_, err = s.GetHistory(ctx, "s1", paperURL)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	require.NoError(t, s.PutDocument(ctx, domain.NewDocument(paperURL, "text")))

	got, err := s.GetDocument(ctx, paperURL)
	require.NoError(t, err)
	got.Summaries[domain.LevelLow] = "mutated"

	again, err := s.GetDocument(ctx, paperURL)
	require.NoError(t, err)
	assert.Empty(t, again.Summaries)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "cache.db"), time.Hour)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutDocument(ctx, domain.NewDocument(paperURL, "text")))
	require.NoError(t, s.PutHistory(ctx, "s1", paperURL, []domain.Turn{{Role: domain.RoleUser, Text: "q"}}))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.GetDocument(ctx, paperURL)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetHistory(ctx, "s1", paperURL)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newRedisStore(client, "askpaper:", time.Hour)
	defer s.Close()

	exerciseStore(t, s)

	ctx := context.Background()
	require.NoError(t, s.PutDocument(ctx, domain.NewDocument(paperURL, "text")))
	assert.True(t, mr.Exists("askpaper:"+DocumentKey(paperURL)))

	mr.FastForward(2 * time.Hour)
	_, err := s.GetDocument(ctx, paperURL)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr()+"/0", "", 0)
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	_, err = NewRedisStore(context.Background(), "not-a-url", "", 0)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.CacheConfig{Backend: config.CacheMemory})
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	s, err = Open(ctx, config.CacheConfig{
		Backend: config.CacheSQLite,
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "a.db")},
	})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, s.Close())

	_, err = Open(ctx, config.CacheConfig{Backend: "s3"})
	assert.Error(t, err)
}
