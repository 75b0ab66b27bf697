package summarizer

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/askpaper/internal/chunker"
	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/llm"
	"github.com/liliang-cn/askpaper/internal/prompt"
)

// fakeLLM answers chunk prompts with a numbered partial and reduce prompts
// with every heading it was asked for.
type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	calls   atomic.Int32
	failOn  int32
}

var headingRe = regexp.MustCompile(`<h2>[^<]+</h2>`)

func (f *fakeLLM) Generate(_ context.Context, msgs []llm.Message) (string, error) {
	n := f.calls.Add(1)
	if f.failOn != 0 && n == f.failOn {
		return "", domain.ErrOracle
	}
	text := msgs[len(msgs)-1].Text
	f.mu.Lock()
	f.prompts = append(f.prompts, text)
	f.mu.Unlock()

	if strings.HasPrefix(text, "Synthesize") {
		return strings.Join(headingRe.FindAllString(text, -1), "<p>...</p>"), nil
	}
	chunk := text[strings.Index(text, "CHUNK:\n")+len("CHUNK:\n"):]
	return "<p>partial of " + strings.Fields(chunk)[0] + "</p>", nil
}

func words(n int) string {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = "w" + strings.Repeat("x", 3) // 4 runes + 1 space
	}
	return strings.Join(ws, " ")
}

func newService(t *testing.T, gen llm.Generator, concurrency int) *Service {
	t.Helper()
	c, err := chunker.New(20000, 800)
	require.NoError(t, err)
	return NewService(gen, c, concurrency, nil)
}

func TestSummarizeCallCount(t *testing.T) {
	text := words(5000) // 24999 runes
	require.Greater(t, len(text), 20000)

	gen := &fakeLLM{}
	out, err := newService(t, gen, 1).Summarize(context.Background(), text, domain.LevelMedium)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.EqualValues(t, 3, gen.calls.Load(), "two map calls and one reduce call")

	for _, p := range gen.prompts[:2] {
		assert.Contains(t, p, "complexity level: MEDIUM")
	}
	assert.Contains(t, gen.prompts[2], "Maintain the MEDIUM complexity target")
}

func TestSummarizeShortTextSingleCall(t *testing.T) {
	gen := &fakeLLM{}
	_, err := newService(t, gen, 1).Summarize(context.Background(), "a short paper", domain.LevelLow)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gen.calls.Load())
	assert.Contains(t, gen.prompts[0], "CHUNK:\na short paper\n")
}

func TestSummarizeStructure(t *testing.T) {
	text := words(5000)
	var outs []string
	for range 2 {
		out, err := newService(t, &fakeLLM{}, 1).Summarize(context.Background(), text, domain.LevelHigh)
		require.NoError(t, err)
		outs = append(outs, out)
	}
	for _, out := range outs {
		got := headingRe.FindAllString(out, -1)
		require.Len(t, got, len(prompt.SummaryHeadings))
		for i, h := range prompt.SummaryHeadings {
			assert.Equal(t, "<h2>"+h+"</h2>", got[i])
		}
	}
}

func TestSummarizeAbortsOnChunkFailure(t *testing.T) {
	gen := &fakeLLM{failOn: 1}
	_, err := newService(t, gen, 1).Summarize(context.Background(), words(5000), domain.LevelLow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOracle))
	assert.EqualValues(t, 1, gen.calls.Load(), "no further chunk or reduce calls")
}

func TestSummarizeReduceFailure(t *testing.T) {
	gen := &fakeLLM{failOn: 3}
	_, err := newService(t, gen, 1).Summarize(context.Background(), words(5000), domain.LevelLow)
	require.ErrorIs(t, err, domain.ErrOracle)
	assert.Contains(t, err.Error(), "reduce 2 partials")
}

func TestSummarizeParallelKeepsOrder(t *testing.T) {
	c, err := chunker.New(100, 0)
	require.NoError(t, err)

	var parts []string
	for i := range 10 {
		parts = append(parts, strings.Repeat(string(rune('a'+i)), 90))
	}
	text := strings.Join(parts, " ")

	var reducePrompt string
	gen := llm.GeneratorFunc(func(_ context.Context, msgs []llm.Message) (string, error) {
		p := msgs[0].Text
		if strings.HasPrefix(p, "Synthesize") {
			reducePrompt = p
			return "<h2>TL;DR</h2>", nil
		}
		chunk := strings.TrimSpace(p[strings.Index(p, "CHUNK:\n")+len("CHUNK:\n"):])
		return chunk[:1], nil
	})

	_, err = NewService(gen, c, 4, nil).Summarize(context.Background(), text, domain.LevelLow)
	require.NoError(t, err)
	assert.Contains(t, reducePrompt, "PARTIALS:\na\n\nb\n\nc\n\nd\n\ne\n\nf\n\ng\n\nh\n\ni\n\nj\n")
}
