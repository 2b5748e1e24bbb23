package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only blanks", "\n \n\t\n", ""},
		{"leading blanks dropped", "\n\n# Title", "# Title"},
		{"blank runs collapse", "a\n\n\n\nb", "a\n\nb"},
		{"whitespace-only lines are blank", "a\n   \n\t\nb", "a\n\nb"},
		{"indentation kept", "  - nested\nnext", "  - nested\nnext"},
		{"trailing whitespace trimmed", "a\nb  \n\n\n", "a\nb"},
		{"carriage returns", "a\r\n\r\nb\r\n", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanWhitespace(tt.in))
		})
	}
}

func TestCleanWhitespace_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\nx\n\n\n\ny  \n   z\n\n",
		"--- Footer ---\n\n\n\n---\n \n",
		"a \n\n b \t\n\n\n\n",
	}
	for _, in := range inputs {
		once := CleanWhitespace(in)
		assert.Equal(t, once, CleanWhitespace(once), "input %q", in)
		assert.NotContains(t, once, "\n\n\n")
		assert.Equal(t, strings.TrimRight(once, " \t\n"), once)
		assert.False(t, strings.HasPrefix(once, "\n"))
	}
}
