package extract

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// contentSelectors are tried in order; the first match wins
var contentSelectors = []string{"article", "main", "#content", ".content", "#paper", "#abs"}

func htmlText(data []byte, contentType string) (string, error) {
	if !utf8.Valid(data) {
		enc, name, _ := charset.DetermineEncoding(data, contentType)
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
		if err != nil {
			return "", fmt.Errorf("transcode from %s: %w", name, err)
		}
		data = decoded
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for _, sel := range contentSelectors {
		if node := selectOne(doc, sel); node != nil {
			return joinTexts(node, atom.P, atom.Li), nil
		}
	}
	return joinTexts(doc, atom.P), nil
}

// selectOne supports the tag, #id and .class forms
func selectOne(root *html.Node, sel string) *html.Node {
	var match func(*html.Node) bool
	switch {
	case strings.HasPrefix(sel, "#"):
		id := sel[1:]
		match = func(n *html.Node) bool { return attr(n, "id") == id }
	case strings.HasPrefix(sel, "."):
		class := sel[1:]
		match = func(n *html.Node) bool { return slices.Contains(strings.Fields(attr(n, "class")), class) }
	default:
		match = func(n *html.Node) bool { return n.Data == sel }
	}

	for n := range root.Descendants() {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}
	return nil
}

// joinTexts returns the text of every descendant with one of the given tags, one per line
func joinTexts(root *html.Node, tags ...atom.Atom) string {
	var lines []string
	for n := range root.Descendants() {
		if n.Type == html.ElementNode && slices.Contains(tags, n.DataAtom) {
			lines = append(lines, nodeText(n))
		}
	}
	return strings.Join(lines, "\n")
}

// nodeText joins the trimmed text fragments under n with single spaces
func nodeText(n *html.Node) string {
	var parts []string
	for d := range n.Descendants() {
		if d.Type != html.TextNode || skipped(d) {
			continue
		}
		if s := strings.TrimSpace(d.Data); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func skipped(text *html.Node) bool {
	p := text.Parent
	return p != nil && (p.DataAtom == atom.Script || p.DataAtom == atom.Style)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
