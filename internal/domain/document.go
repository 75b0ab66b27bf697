package domain

import (
	"strings"
	"time"
)

// Level is the requested depth of a summary
type Level string

// Complexity levels
const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// DefaultLevel is used for any unrecognized level
const DefaultLevel = LevelLow

// Levels lists every valid level
var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

// ParseLevel normalizes raw input; anything unknown becomes DefaultLevel.
func ParseLevel(raw string) Level {
	switch l := Level(strings.ToUpper(strings.TrimSpace(raw))); l {
	case LevelLow, LevelMedium, LevelHigh:
		return l
	default:
		return DefaultLevel
	}
}

func (l Level) String() string {
	return string(l)
}

// Document is a paper's extracted text plus the summaries produced so far
type Document struct {
	URL       string           `json:"url"`
	Text      string           `json:"text"`
	Summaries map[Level]string `json:"summaries"`
	FetchedAt time.Time        `json:"timestamp"`
}

// NewDocument creates a document with no summaries yet
func NewDocument(url, text string) *Document {
	return &Document{
		URL:       url,
		Text:      text,
		Summaries: make(map[Level]string),
		FetchedAt: time.Now().UTC(),
	}
}

// Summary returns the cached summary for a level
func (d *Document) Summary(level Level) (string, bool) {
	if d == nil || d.Summaries == nil {
		return "", false
	}
	s, ok := d.Summaries[level]
	return s, ok
}

// WithSummary returns a copy of the document with the level's summary set.
// Cached documents are treated as immutable, so callers never mutate the stored value.
func (d *Document) WithSummary(level Level, summary string) *Document {
	out := &Document{
		URL:       d.URL,
		Text:      d.Text,
		Summaries: make(map[Level]string, len(d.Summaries)+1),
		FetchedAt: d.FetchedAt,
	}
	for k, v := range d.Summaries {
		out.Summaries[k] = v
	}
	out.Summaries[level] = summary
	return out
}

// SummarizeRequest is the request to summarize a paper
type SummarizeRequest struct {
	PaperURL   string `json:"paper_url" form:"paper_url"`
	Complexity string `json:"complexity" form:"complexity"`
	SessionID  string `json:"session_id,omitempty" form:"session_id"`
}

// SummarizeResponse is the response for a summarized paper
type SummarizeResponse struct {
	Success   bool   `json:"success"`
	PaperURL  string `json:"paper_url"`
	Level     Level  `json:"level"`
	Summary   string `json:"summary"`
	SessionID string `json:"session_id,omitempty"`
	Cached    bool   `json:"cached"`
}
