package chunker

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/askpaper/internal/domain"
)

func mustNew(t *testing.T, maxChars, overlap int) *Chunker {
	t.Helper()
	c, err := New(maxChars, overlap)
	require.NoError(t, err)
	return c
}

// randomText builds a deterministic text of roughly n runes with varied word lengths
func randomText(seed int64, n int) string {
	r := rand.New(rand.NewSource(seed))
	seps := []string{" ", "  ", "\n", "\t", " \n "}
	var b strings.Builder
	for b.Len() < n {
		wl := 1 + r.Intn(14)
		for i := 0; i < wl; i++ {
			b.WriteByte(byte('a' + r.Intn(26)))
		}
		b.WriteString(seps[r.Intn(len(seps))])
	}
	return b.String()
}

// stripOverlap removes the carried tail from every chunk after the first
func stripOverlap(chunks []string, overlap int) []string {
	out := make([]string, len(chunks))
	for i, chunk := range chunks {
		if i == 0 {
			out[i] = chunk
			continue
		}
		prefix := lastRunes(chunks[i-1], overlap)
		if prefix != "" {
			prefix += " "
		}
		out[i] = strings.TrimPrefix(chunk, prefix)
	}
	return out
}

func TestNewRejectsRunawayOverlap(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		overlap  int
	}{
		{"overlap equals max", 100, 100},
		{"overlap above max", 100, 250},
		{"negative overlap", 100, -1},
		{"zero max", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.maxChars, tt.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidChunking)
		})
	}
}

func TestShortTextIsSingleChunk(t *testing.T) {
	c := mustNew(t, 20000, 800)
	for _, text := range []string{"", "one", "  padded   text with\nbreaks  ", randomText(1, 19000)} {
		chunks := c.Split(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	}
}

func TestTwoChunkScenario(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("abcdefghi ", 2500))
	require.Greater(t, len(text), 20000)

	c := mustNew(t, 20000, 800)
	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], lastRunes(chunks[0], 800)+" "))
}

func TestRejoinReconstructsWords(t *testing.T) {
	tests := []struct {
		maxChars int
		overlap  int
		size     int
	}{
		{100, 10, 1000},
		{100, 0, 1000},
		{50, 35, 600},
		{2000, 300, 25000},
		{20000, 800, 70000},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("max=%d/overlap=%d", tt.maxChars, tt.overlap), func(t *testing.T) {
			text := randomText(int64(i+7), tt.size)
			c := mustNew(t, tt.maxChars, tt.overlap)
			chunks := c.Split(text)
			require.Greater(t, len(chunks), 1)

			var words []string
			for _, part := range stripOverlap(chunks, tt.overlap) {
				words = append(words, strings.Fields(part)...)
			}
			assert.Equal(t, strings.Fields(text), words)

			for _, chunk := range chunks {
				assert.NotEmpty(t, chunk)
				assert.LessOrEqual(t, utf8.RuneCountInString(chunk), tt.maxChars)
			}
		})
	}
}

func TestLongWordIsNotDropped(t *testing.T) {
	long := strings.Repeat("x", 40)
	text := "alpha beta " + long + " gamma delta"
	c := mustNew(t, 20, 5)

	chunks := c.Split(text)
	var joined []string
	for _, part := range stripOverlap(chunks, 5) {
		joined = append(joined, strings.Fields(part)...)
	}
	assert.Equal(t, strings.Fields(text), joined)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunksStopsEarly(t *testing.T) {
	c := mustNew(t, 30, 5)
	seen := 0
	for range c.Chunks(randomText(3, 2000)) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestOverlapKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("naïve café résumé ", 40)
	c := mustNew(t, 60, 7)
	for _, chunk := range c.Split(text) {
		assert.True(t, utf8.ValidString(chunk))
	}
	assert.Equal(t, "é", lastRunes("résumé", 1))
	assert.Equal(t, "", lastRunes("abc", 0))
	assert.Equal(t, "abc", lastRunes("abc", 10))
}
