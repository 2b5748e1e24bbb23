package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a rendered page's outline.
type Heading struct {
	Level int
	Text  string
}

// Summary describes the structure of a Markdown document.
type Summary struct {
	Headings  []Heading
	Links     int
	Images    int
	ListItems int
	Rules     int
	Words     int
}

// Summarize parses md with goldmark and counts its structural elements.
func Summarize(md string) Summary {
	var s Summary
	if md == "" {
		return s
	}

	src := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			s.Headings = append(s.Headings, Heading{Level: node.Level, Text: inlineText(node, src)})
		case *ast.Link:
			s.Links++
		case *ast.Image:
			s.Images++
		case *ast.ListItem:
			s.ListItems++
		case *ast.ThematicBreak:
			s.Rules++
		case *ast.Text:
			s.Words += len(strings.Fields(string(node.Segment.Value(src))))
		}
		return ast.WalkContinue, nil
	})

	return s
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
