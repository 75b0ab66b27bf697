// Package chunker splits long paper text into word-aligned, overlapping chunks
// small enough for a single LLM prompt.
package chunker

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// Chunker packs whitespace-delimited words into chunks of at most MaxChars runes.
// From the second chunk on, each chunk starts with the last Overlap runes of the
// previous one, so context that straddles a boundary is seen twice.
type Chunker struct {
	maxChars int
	overlap  int
}

// New validates the bounds. An overlap at or above maxChars would make every chunk
// start full and grow without bound, so it is rejected.
func New(maxChars, overlap int) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: max chars must be positive, got %d", domain.ErrInvalidChunking, maxChars)
	}
	if overlap < 0 || overlap >= maxChars {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidChunking, overlap, maxChars)
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}, nil
}

// MaxChars returns the chunk bound
func (c *Chunker) MaxChars() int { return c.maxChars }

// Overlap returns the carried tail length
func (c *Chunker) Overlap() int { return c.overlap }

// Chunks lazily yields the chunks of text in document order.
//
// Text that already fits is yielded unchanged as the only chunk. Otherwise words
// are re-joined with single spaces. A chunk is only closed once it holds at least
// one word of its own, so a single word longer than MaxChars yields an oversized
// chunk instead of an empty or overlap-only one.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if utf8.RuneCountInString(text) <= c.maxChars {
			yield(text)
			return
		}

		var (
			b     strings.Builder
			size  int
			words int
		)
		for w := range strings.FieldsSeq(text) {
			cost := utf8.RuneCountInString(w) + 1
			if words > 0 && size+cost > c.maxChars {
				chunk := b.String()
				if !yield(chunk) {
					return
				}
				b.Reset()
				size, words = 0, 0
				if tail := lastRunes(chunk, c.overlap); tail != "" {
					b.WriteString(tail)
					size = utf8.RuneCountInString(tail)
				}
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w)
			size += cost
			words++
		}
		if words > 0 {
			yield(b.String())
		}
	}
}

// Split collects every chunk of text
func (c *Chunker) Split(text string) []string {
	return slices.Collect(c.Chunks(text))
}

// lastRunes returns the final n runes of s without cutting a UTF-8 sequence
func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := len(s)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}
