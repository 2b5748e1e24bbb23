package markdown

import (
	"strings"

	"github.com/tesh254/axmd/internal/axtree"
)

// textContent flattens the inline text under n into a single line.
func textContent(idx *axtree.Index, n *axtree.Node) string {
	var b strings.Builder
	collectText(idx, n, &b, map[string]struct{}{})
	return strings.Join(strings.Fields(b.String()), " ")
}

// collectText appends n's text to b. path holds the ancestors of n in this
// extraction, so a cycle stops where it closes while repeated and shared
// children still contribute every time they appear.
func collectText(idx *axtree.Index, n *axtree.Node, b *strings.Builder, path map[string]struct{}) {
	path[n.NodeID] = struct{}{}
	defer delete(path, n.NodeID)

	if name := n.NameValue(); name != "" && !onlyInlineTextChildren(idx, n) {
		b.WriteString(name)
	}

	for _, c := range idx.ChildNodes(n) {
		switch {
		case c.IsInlineText():
			b.WriteString(c.NameValue())
		case c.IsIgnored():
		default:
			if _, ok := path[c.NodeID]; ok {
				continue
			}
			collectText(idx, c, b, path)
		}
	}
}

// onlyInlineTextChildren reports whether n has resolvable children and all
// of them are StaticText or InlineTextBox leaves. Leaves do not qualify, so
// a node without children keeps its own name.
func onlyInlineTextChildren(idx *axtree.Index, n *axtree.Node) bool {
	children := idx.ChildNodes(n)
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if !c.IsInlineText() {
			return false
		}
	}
	return true
}
