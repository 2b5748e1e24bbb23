package markdown

import "github.com/tesh254/axmd/internal/axtree"

func findProperty(n *axtree.Node, name string, match func(axtree.PropertyContent) bool) (axtree.PropertyContent, bool) {
	for _, p := range n.Properties {
		if p.Name == name && match(p.Value.Content) {
			return p.Value.Content, true
		}
	}
	return nil, false
}

func isString(c axtree.PropertyContent) bool {
	_, ok := c.(axtree.String)
	return ok
}

func isInteger(c axtree.PropertyContent) bool {
	_, ok := c.(axtree.Integer)
	return ok
}

// propertyURL returns the first string-typed "url" property.
func propertyURL(n *axtree.Node) (string, bool) {
	c, ok := findProperty(n, "url", isString)
	if !ok {
		return "", false
	}
	return string(c.(axtree.String)), true
}

// propertyAlt returns the first string-typed "alt" property, or "".
func propertyAlt(n *axtree.Node) string {
	c, ok := findProperty(n, "alt", isString)
	if !ok {
		return ""
	}
	return string(c.(axtree.String))
}

func levelProperty(n *axtree.Node, fallback int64) int64 {
	c, ok := findProperty(n, "level", isInteger)
	if !ok {
		return fallback
	}
	return int64(c.(axtree.Integer))
}

func headingLevel(n *axtree.Node) int64 { return levelProperty(n, 1) }

// roleLevel is the separator variant of the level lookup.
func roleLevel(n *axtree.Node) int64 { return levelProperty(n, 0) }
