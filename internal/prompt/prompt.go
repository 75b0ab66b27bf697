// Package prompt builds the instruction texts sent to the LLM.
package prompt

import (
	"fmt"
	"strings"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// SummaryHeadings is the section structure every final summary follows
var SummaryHeadings = []string{
	"TL;DR",
	"Problem",
	"Approach",
	"Key Contributions",
	"Results",
	"Limitations",
	"Notable Equations/Algorithms (if any)",
	"Suggested Reading",
}

const htmlOnly = "Return ONLY clean HTML using <h2>, <p>, and <ul><li> for structure.\n" +
	"Do not include any extraneous text outside HTML.\n\n"

// Chunk asks for a summary of one chunk at the given level
func Chunk(level domain.Level, chunk string) string {
	var b strings.Builder
	b.WriteString("You are analyzing an academic paper. Summarize the following CHUNK in English.\n")
	b.WriteString("Focus on: problem statement, motivation, key ideas/methods, experiments, results, limitations.\n")
	fmt.Fprintf(&b, "Match the requested complexity level: %s.\n", level)
	b.WriteString("- LOW  => explain in layman terms and concise bullet points.\n")
	b.WriteString("- MEDIUM => provide intuition and a bit of math/CS detail where helpful.\n")
	b.WriteString("- HIGH => advanced/technical explanation for experts.\n\n")
	b.WriteString(htmlOnly)
	b.WriteString("CHUNK:\n")
	b.WriteString(chunk)
	b.WriteString("\n")
	return b.String()
}

// Reduce asks for one cohesive summary from the ordered partials
func Reduce(level domain.Level, partials []string) string {
	headings := make([]string, len(SummaryHeadings))
	for i, h := range SummaryHeadings {
		headings[i] = "<h2>" + h + "</h2>"
	}

	var b strings.Builder
	b.WriteString("Synthesize a cohesive paper summary from these PARTIAL chunk summaries.\n")
	fmt.Fprintf(&b, "Maintain the %s complexity target.\n", level)
	fmt.Fprintf(&b, "Structure with headings: %s.\n\n", strings.Join(headings, ", "))
	b.WriteString(htmlOnly)
	b.WriteString("PARTIALS:\n")
	b.WriteString(strings.Join(partials, "\n\n"))
	b.WriteString("\n")
	return b.String()
}

// Chat is the grounding instruction that opens every chat conversation
func Chat(context string) string {
	var b strings.Builder
	b.WriteString("You are a helpful research assistant.\n")
	b.WriteString("Ground your answers ONLY in the provided paper text. If you are uncertain, say you are unsure.\n")
	b.WriteString("Cite specific sections/ideas from the context when possible (no external links).\n\n")
	b.WriteString("Return ONLY valid HTML.\n")
	b.WriteString("Use <h2> for section titles, <p> for paragraphs, and <ul><li> for lists.\n")
	b.WriteString("For emphasis use <strong> (bold) and <em> (italic). DO NOT use ** or *.\n")
	b.WriteString("Do not include Markdown, code fences, or any text outside HTML.\n\n")
	b.WriteString("CONTEXT (paper excerpt):\n")
	b.WriteString(context)
	b.WriteString("\n\nNow continue the conversation.\n")
	return b.String()
}
