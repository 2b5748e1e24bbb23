package markdown

import (
	"strings"
	"unicode"
)

// CleanWhitespace collapses runs of blank lines into a single blank line,
// drops leading blank lines and trims trailing whitespace. Non-blank lines
// keep their content, indentation included. It is idempotent.
func CleanWhitespace(s string) string {
	var b strings.Builder
	prevBlank := false

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			if !prevBlank && b.Len() > 0 {
				b.WriteByte('\n')
				prevBlank = true
			}
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		prevBlank = false
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}
