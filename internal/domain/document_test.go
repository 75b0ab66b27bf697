package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want Level
	}{
		{"LOW", LevelLow},
		{"medium", LevelMedium},
		{"  High ", LevelHigh},
		{"", LevelLow},
		{"EXTREME", LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.raw))
		})
	}
}

func TestDocumentWithSummary(t *testing.T) {
	doc := NewDocument("https://example.org/p", "text")
	next := doc.WithSummary(LevelHigh, "<p>s</p>")

	_, ok := doc.Summary(LevelHigh)
	assert.False(t, ok, "original must not change")

	got, ok := next.Summary(LevelHigh)
	assert.True(t, ok)
	assert.Equal(t, "<p>s</p>", got)
	assert.Equal(t, doc.FetchedAt, next.FetchedAt)
}
