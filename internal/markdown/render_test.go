package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/axmd/internal/axtree"
)

func mustDecode(t *testing.T, doc string) *axtree.Tree {
	t.Helper()
	tree, err := axtree.Decode([]byte(doc))
	require.NoError(t, err)
	return tree
}

func TestRender_Heading(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"], "ignored": false},
		{"nodeId": "2", "parentId": "1", "role": {"type": "role", "value": "heading"},
		 "name": {"type": "computedString", "value": "Test Heading"}, "childIds": ["-1"],
		 "properties": [{"name": "level", "value": {"type": "integer", "value": 2}}]},
		{"nodeId": "-1", "parentId": "2", "role": {"type": "internalRole", "value": 158},
		 "name": {"type": "computedString", "value": "Test Heading"}}
	]}`)

	assert.Equal(t, "## Test Heading", Render(tree))
}

func TestRender_Link(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "parentId": "1", "role": {"type": "role", "value": "link"},
		 "name": {"type": "computedString", "value": "Click me"}, "childIds": ["-1"],
		 "properties": [{"name": "url", "value": {"type": "string", "value": "https://example.com"}}]},
		{"nodeId": "-1", "parentId": "2", "role": {"type": "internalRole", "value": 158},
		 "name": {"type": "computedString", "value": "Click me"}}
	]}`)

	assert.Equal(t, "[Click me](https://example.com)", Render(tree))
}

func TestRender_ParagraphFromStaticText(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "parentId": "1", "role": {"type": "role", "value": "paragraph"},
		 "name": {"type": "computedString", "value": ""}, "childIds": ["-1"]},
		{"nodeId": "-1", "parentId": "2", "role": {"type": "internalRole", "value": 158},
		 "name": {"type": "computedString", "value": "This is a paragraph"}}
	]}`)

	assert.Equal(t, "This is a paragraph", Render(tree))
}

func TestRender_IgnoredSubtree(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "parentId": "1", "role": {"type": "role", "value": "none"}, "childIds": ["3"],
		 "ignored": false, "ignoredReasons": [{"name": "uninteresting", "value": {"type": "boolean", "value": true}}]},
		{"nodeId": "3", "parentId": "2", "role": {"type": "role", "value": "heading"},
		 "name": {"type": "computedString", "value": "Visible Heading"}, "childIds": ["-1"],
		 "properties": [{"name": "level", "value": {"type": "integer", "value": 1}}]},
		{"nodeId": "-1", "parentId": "3", "role": {"type": "internalRole", "value": 158},
		 "name": {"type": "computedString", "value": "Visible Heading"}}
	]}`)

	assert.Contains(t, strings.Split(Render(tree), "\n"), "# Visible Heading")
}

func TestRender_CycleTerminates(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "role": {"type": "role", "value": "heading"}, "childIds": ["3"]},
		{"nodeId": "3", "role": {"type": "role", "value": "generic"}, "childIds": ["2", "4"]},
		{"nodeId": "4", "role": {"type": "internalRole", "value": 158}, "name": {"type": "computedString", "value": "Loop"}}
	]}`)

	assert.Equal(t, "# Loop", Render(tree))
}

func TestRender_TwoNodeCycleWithoutRoot(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "a", "role": {"type": "role", "value": "paragraph"}, "childIds": ["b"]},
		{"nodeId": "b", "role": {"type": "role", "value": "paragraph"}, "childIds": ["a"]}
	]}`)
	assert.Equal(t, "", Render(tree))

	withRoot := mustDecode(t, `{"nodes": [
		{"nodeId": "r", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["a"]},
		{"nodeId": "a", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "A"}, "childIds": ["b"]},
		{"nodeId": "b", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "B"}, "childIds": ["a"]}
	]}`)
	assert.Equal(t, "AB\n\nBA", Render(withRoot))
}

func TestRender_UnknownPropertyDoesNotBreakRendering(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "role": {"type": "role", "value": "paragraph"},
		 "name": {"type": "computedString", "value": "Still here"},
		 "properties": [{"name": "x", "value": {"type": "futurething", "shape": {"a": 1}}}]}
	]}`)
	assert.Equal(t, "Still here", Render(tree))
}

func TestRender_NoRoot(t *testing.T) {
	assert.Equal(t, "", Render(&axtree.Tree{}))
}

func TestRender_RoleDispatch(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["sep0", "main"]},
		{"nodeId": "sep0", "role": {"type": "role", "value": "separator"}},
		{"nodeId": "main", "role": {"type": "role", "value": "main"}, "childIds": ["h", "list", "btn", "img", "bare", "sep1", "sep2", "foot"]},
		{"nodeId": "h", "role": {"type": "role", "value": "heading"}, "name": {"type": "computedString", "value": "Deep"},
		 "properties": [{"name": "level", "value": {"type": "integer", "value": 9}}]},
		{"nodeId": "list", "role": {"type": "role", "value": "list"}, "childIds": ["li1", "li2"]},
		{"nodeId": "li1", "role": {"type": "role", "value": "listItem"}, "childIds": ["t1"]},
		{"nodeId": "t1", "role": {"type": "internalRole", "value": 158}, "name": {"type": "computedString", "value": "  first   item "}},
		{"nodeId": "li2", "role": {"type": "role", "value": "listItem"}},
		{"nodeId": "btn", "role": {"type": "role", "value": "button"}, "name": {"type": "computedString", "value": "Submit"}},
		{"nodeId": "img", "role": {"type": "role", "value": "image"},
		 "properties": [{"name": "alt", "value": {"type": "string", "value": "Logo"}},
		                {"name": "url", "value": {"type": "string", "value": "/logo.png"}}]},
		{"nodeId": "bare", "role": {"type": "role", "value": "link"}, "name": {"type": "computedString", "value": "No target"}},
		{"nodeId": "sep1", "role": {"type": "role", "value": "separator"},
		 "properties": [{"name": "level", "value": {"type": "integer", "value": 1}}]},
		{"nodeId": "sep2", "role": {"type": "role", "value": "separator"}},
		{"nodeId": "foot", "role": {"type": "role", "value": "contentinfo"}, "childIds": ["ft"]},
		{"nodeId": "ft", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "Copyright"}}
	]}`)

	want := strings.Join([]string{
		"---",
		"###### Deep",
		"",
		"- first item",
		"[Submit](button)",
		"![Logo](/logo.png)",
		"No target",
		"",
		"---",
		"",
		"--- Footer ---",
		"Copyright",
	}, "\n")
	assert.Equal(t, want, Render(tree))
}

func TestRender_LinkWithoutTextStillEmitsTarget(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "role": {"type": "role", "value": "link"},
		 "properties": [{"name": "url", "value": {"type": "token", "value": "ignored"}},
		                {"name": "url", "value": {"type": "string", "value": "https://a.example"}}],
		 "childIds": ["3"]},
		{"nodeId": "3", "role": {"type": "role", "value": "image"}}
	]}`)
	assert.Equal(t, "[](https://a.example)", Render(tree))
}

func TestRender_ImageWithoutAltIsSkipped(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2", "3"]},
		{"nodeId": "2", "role": {"type": "role", "value": "image"},
		 "properties": [{"name": "alt", "value": {"type": "token", "value": "not a string"}}]},
		{"nodeId": "3", "role": {"type": "role", "value": "image"},
		 "properties": [{"name": "alt", "value": {"type": "string", "value": "Chart"}}]}
	]}`)
	assert.Equal(t, "![Chart]()", Render(tree))
}

func TestRender_IgnoredLeafEmitsNothing(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2", "3"]},
		{"nodeId": "2", "role": {"type": "role", "value": "heading"}, "name": {"type": "computedString", "value": "Hidden"},
		 "ignoredReasons": [{"name": "uninteresting", "value": {"type": "boolean", "value": true}}]},
		{"nodeId": "3", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "Shown"}}
	]}`)
	assert.Equal(t, "Shown", Render(tree))
}

func TestRender_IgnoredNodeIsTransparent(t *testing.T) {
	withWrapper := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["w"]},
		{"nodeId": "w", "role": {"type": "role", "value": "generic"}, "childIds": ["sep", "p"],
		 "ignoredReasons": [{"name": "uninteresting", "value": {"type": "boolean", "value": true}}]},
		{"nodeId": "sep", "role": {"type": "role", "value": "separator"}},
		{"nodeId": "p", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "Body"}}
	]}`)
	reparented := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["sep", "p"]},
		{"nodeId": "sep", "role": {"type": "role", "value": "separator"}},
		{"nodeId": "p", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "Body"}}
	]}`)

	assert.Equal(t, Render(reparented), Render(withWrapper))
	assert.Equal(t, "---\nBody", Render(withWrapper))
}

func TestRender_InternalRoleIsTransparent(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "role": {"type": "internalRole", "value": 88}, "childIds": ["3"]},
		{"nodeId": "3", "role": {"type": "role", "value": "separator"}}
	]}`)
	assert.Equal(t, "", Render(tree), "separator below an internal container sits at depth 1")
}

func TestRender_DuplicateAndDanglingChildren(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2", "404", "2"]},
		{"nodeId": "2", "role": {"type": "role", "value": "listItem"}, "childIds": ["t", "t"]},
		{"nodeId": "t", "role": {"type": "internalRole", "value": 158}, "name": {"type": "computedString", "value": "x"}}
	]}`)
	assert.Equal(t, "- xx", Render(tree))
}

func TestRender_IsSafeForConcurrentUse(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
		{"nodeId": "2", "role": {"type": "role", "value": "paragraph"}, "name": {"type": "computedString", "value": "Same"}}
	]}`)
	idx := axtree.NewIndex(tree)

	done := make(chan string, 8)
	for i := 0; i < cap(done); i++ {
		go func() { done <- RenderIndex(idx) }()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, "Same", <-done)
	}
}

func TestRender_RepeatedChildContributesEachTime(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["l"]},
		{"nodeId": "l", "role": {"type": "role", "value": "link"}, "childIds": ["g", "g"],
		 "properties": [{"name": "url", "value": {"type": "string", "value": "u"}}]},
		{"nodeId": "g", "role": {"type": "role", "value": "generic"}, "childIds": ["s"]},
		{"nodeId": "s", "role": {"type": "internalRole", "value": 158}, "name": {"type": "computedString", "value": "Hi"}}
	]}`)
	assert.Equal(t, "[HiHi](u)", Render(tree))
}

func TestRender_SharedSubtreeContributesEachTime(t *testing.T) {
	tree := mustDecode(t, `{"nodes": [
		{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["p"]},
		{"nodeId": "p", "role": {"type": "role", "value": "paragraph"}, "childIds": ["g1", "g2"]},
		{"nodeId": "g1", "role": {"type": "role", "value": "generic"}, "childIds": ["s"]},
		{"nodeId": "g2", "role": {"type": "role", "value": "generic"}, "childIds": ["s"]},
		{"nodeId": "s", "role": {"type": "internalRole", "value": 158}, "name": {"type": "computedString", "value": "X "}}
	]}`)
	assert.Equal(t, "X X", Render(tree))
}

func TestRender_HeadingLevelBounds(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"0", " T"},
		{"-3", " T"},
		{"3", "### T"},
		{"9", "###### T"},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			tree := mustDecode(t, `{"nodes": [
				{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["h"]},
				{"nodeId": "h", "role": {"type": "role", "value": "heading"}, "name": {"type": "computedString", "value": "T"},
				 "properties": [{"name": "level", "value": {"type": "integer", "value": `+tt.level+`}}]}
			]}`)
			assert.Equal(t, tt.want, Render(tree))
		})
	}
}
