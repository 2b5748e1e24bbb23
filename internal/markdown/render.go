// Package markdown renders a decoded accessibility tree as Markdown.
//
// Rendering never fails. Subtrees that cannot be rendered are skipped, and
// every walk carries its own visited set so cyclic or repetitive id graphs
// terminate.
package markdown

import (
	"strings"

	"github.com/tesh254/axmd/internal/axtree"
)

const footerMarker = "--- Footer ---"

// Render converts tree to Markdown. It returns "" when the tree has no
// RootWebArea node.
func Render(tree *axtree.Tree) string {
	return RenderIndex(axtree.NewIndex(tree))
}

// RenderIndex renders an already indexed tree. Concurrent calls on the same
// index are safe.
func RenderIndex(idx *axtree.Index) string {
	root := idx.FindRoot()
	if root == nil {
		return ""
	}

	w := &walker{idx: idx, visited: make(map[string]struct{}, idx.Len())}
	w.convert(root, 0)

	return CleanWhitespace(strings.Join(w.lines, "\n"))
}

type walker struct {
	idx     *axtree.Index
	visited map[string]struct{}
	lines   []string
}

func (w *walker) emit(lines ...string) {
	w.lines = append(w.lines, lines...)
}

func (w *walker) children(n *axtree.Node, depth int) {
	for _, c := range w.idx.ChildNodes(n) {
		w.convert(c, depth)
	}
}

func (w *walker) convert(n *axtree.Node, depth int) {
	if _, seen := w.visited[n.NodeID]; seen {
		return
	}
	w.visited[n.NodeID] = struct{}{}

	if n.IsIgnored() {
		if len(n.ChildIDs) > 0 {
			w.children(n, depth)
		}
		return
	}

	role, _ := n.Role.Named()
	switch role {
	case "RootWebArea", "document":
		w.children(n, depth)
		return

	case "heading":
		if text := textContent(w.idx, n); text != "" {
			w.emit(strings.Repeat("#", clampLevel(headingLevel(n))) + " " + text)
			w.emit("")
		}

	case "link":
		text := textContent(w.idx, n)
		if url, ok := propertyURL(n); ok {
			w.emit("[" + text + "](" + url + ")")
		} else if text != "" {
			w.emit(text)
		}

	case "button":
		if text := textContent(w.idx, n); text != "" {
			w.emit("[" + text + "](button)")
		}

	case "listItem":
		if text := textContent(w.idx, n); text != "" {
			w.emit("- " + text)
		}

	case "paragraph":
		if text := textContent(w.idx, n); text != "" {
			w.emit(text, "")
		}

	case "contentinfo", "footer":
		w.emit("", footerMarker)

	case "separator":
		if roleLevel(n) == 1 || depth == 0 {
			w.emit("", "---")
		}

	case "image":
		if alt := propertyAlt(n); alt != "" {
			url, _ := propertyURL(n)
			w.emit("![" + alt + "](" + url + ")")
		}

	// list, article, main, generic, none, other named roles and every
	// Internal role are transparent containers.
	default:
	}

	w.children(n, depth+1)
}

// clampLevel caps heading depth at six hashes. Levels of zero or below
// produce no hashes.
func clampLevel(level int64) int {
	return int(max(0, min(level, 6)))
}
