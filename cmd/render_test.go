package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/axmd/internal/axtree"
	"github.com/tesh254/axmd/internal/markdown"
)

const paragraphTree = `{"nodes": [
	{"nodeId": "1", "role": {"type": "role", "value": "RootWebArea"}, "childIds": ["2"]},
	{"nodeId": "2", "role": {"type": "role", "value": "paragraph"}, "childIds": ["3"]},
	{"nodeId": "3", "role": {"type": "internalRole", "value": 158}, "name": {"type": "computedString", "value": "Hello world"}}
]}`

func TestRenderTree(t *testing.T) {
	md, err := renderTree(strings.NewReader(paragraphTree))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", md)

	_, err = renderTree(strings.NewReader(`{"nodes": "nope"}`))
	assert.ErrorIs(t, err, axtree.ErrStructural)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "", "# Title"))
	assert.Equal(t, "# Title\n", buf.String())

	path := filepath.Join(t.TempDir(), "page.md")
	buf.Reset()
	require.NoError(t, writeOutput(&buf, path, "# Title"))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(data))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, markdown.Summarize("# Top\n\n## Sub\n\n[a](b)"))

	out := buf.String()
	assert.Contains(t, out, "Element")
	assert.Contains(t, out, "Headings")
	assert.Contains(t, out, "Outline")
	assert.Contains(t, out, "  Sub")
}

func TestRenderCommand(t *testing.T) {
	var out bytes.Buffer
	renderCmd.SetIn(strings.NewReader(paragraphTree))
	renderCmd.SetOut(&out)
	t.Cleanup(func() {
		renderCmd.SetIn(nil)
		renderCmd.SetOut(nil)
	})

	require.NoError(t, renderCmd.RunE(renderCmd, []string{"-"}))
	assert.Equal(t, "Hello world\n", out.String())
}
