// Package richtext turns the formatted text found in templates (markdown
// notes, header and footer HTML, placeholders) into forms the PDF backends
// can draw.
package richtext

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Run is a span of text sharing one style.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is a block of runs. Bullet holds the list marker, if any.
type Paragraph struct {
	Runs    []Run
	Bullet  string
	Heading bool
}

// Plain returns the paragraph text without styling, marker included.
func (p Paragraph) Plain() string {
	var b strings.Builder
	if p.Bullet != "" {
		b.WriteString(p.Bullet)
		b.WriteByte(' ')
	}
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Markdown parses note text with goldmark.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a CommonMark parser with strikethrough support.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(goldmark.WithExtensions(extension.Strikethrough))}
}

// HTML converts markdown to an HTML fragment.
func (m *Markdown) HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// Paragraphs flattens markdown into styled paragraphs.
func (m *Markdown) Paragraphs(src string) []Paragraph {
	source := []byte(src)
	doc := m.md.Parser().Parse(text.NewReader(source))

	var (
		out    []Paragraph
		cur    *Paragraph
		bold   int
		italic int
	)
	flush := func() {
		if cur != nil && len(cur.Runs) > 0 {
			out = append(out, *cur)
		}
		cur = nil
	}
	appendText := func(s string) {
		if cur == nil || s == "" {
			return
		}
		cur.Runs = append(cur.Runs, Run{Text: s, Bold: bold > 0, Italic: italic > 0})
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if entering {
				flush()
				cur = &Paragraph{Bullet: listMarker(n), Heading: n.Kind() == ast.KindHeading}
				if cur.Heading {
					bold++
				}
			} else {
				if n.Kind() == ast.KindHeading {
					bold--
				}
				flush()
			}
		case *ast.Emphasis:
			delta := 1
			if !entering {
				delta = -1
			}
			if node.Level >= 2 {
				bold += delta
			} else {
				italic += delta
			}
		case *ast.Text:
			if entering {
				appendText(string(node.Segment.Value(source)))
				if node.SoftLineBreak() || node.HardLineBreak() {
					appendText(" ")
				}
			}
		case *ast.String:
			if entering {
				appendText(string(node.Value))
			}
		}
		return ast.WalkContinue, nil
	})
	flush()
	return out
}

// listMarker returns "•" or "n." when n is the first block of a list item.
func listMarker(n ast.Node) string {
	item, ok := n.Parent().(*ast.ListItem)
	if !ok || item.FirstChild() != n {
		return ""
	}
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "•"
	}
	pos := list.Start
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		pos++
	}
	return strconv.Itoa(pos) + "."
}
