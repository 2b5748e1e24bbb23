package scraper

import (
	"bytes"
	"fmt"
	"strings"

	htm "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// DefaultSkipTags are removed from a document before HTML conversion.
var DefaultSkipTags = []string{"script", "style", "footer", "img", "svg", "iframe", "head", "link"}

// Parser converts HTML to Markdown. It is the fallback for pages whose
// accessibility tree renders to nothing.
type Parser struct {
	// SkipTags overrides DefaultSkipTags when non-nil.
	SkipTags []string
}

// ToMarkdown converts HTML content to Markdown format.
func (p *Parser) ToMarkdown(htmlString string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlString))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	skip := p.SkipTags
	if skip == nil {
		skip = DefaultSkipTags
	}
	pruneElements(doc, skip)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	markdown, err := htm.ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}

// pruneElements detaches every element whose tag is in tags.
func pruneElements(n *html.Node, tags []string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && contains(tags, c.Data) {
			n.RemoveChild(c)
		} else {
			pruneElements(c, tags)
		}
		c = next
	}
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
