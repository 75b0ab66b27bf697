package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liliang-cn/askpaper/internal/domain"
)

func TestChunk(t *testing.T) {
	p := Chunk(domain.LevelHigh, "some chunk text")
	assert.Contains(t, p, "complexity level: HIGH.")
	assert.True(t, strings.HasSuffix(p, "CHUNK:\nsome chunk text\n"))
}

func TestReduce(t *testing.T) {
	p := Reduce(domain.LevelMedium, []string{"<p>a</p>", "<p>b</p>"})
	assert.Contains(t, p, "Maintain the MEDIUM complexity target.")
	for _, h := range SummaryHeadings {
		assert.Contains(t, p, "<h2>"+h+"</h2>")
	}
	assert.Contains(t, p, "PARTIALS:\n<p>a</p>\n\n<p>b</p>\n")
}

func TestChat(t *testing.T) {
	p := Chat("excerpt")
	assert.Contains(t, p, "CONTEXT (paper excerpt):\nexcerpt\n")
	assert.Contains(t, p, "<strong>")
}
