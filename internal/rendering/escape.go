// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import "strings"

// EscapeLaTeX escapes text for use inside a LaTeX document.
// Special characters \ { } $ & % # ^ _ ~ are escaped, a blank line becomes
// a paragraph break and any other line break becomes a space.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var result strings.Builder
	result.Grow(len(text) * 2)

	newlines := 0
	flushNewlines := func() {
		switch {
		case newlines >= 2:
			result.WriteString(`\par `)
		case newlines == 1:
			result.WriteByte(' ')
		}
		newlines = 0
	}

	for _, r := range text {
		if r == '\n' {
			newlines++
			continue
		}
		flushNewlines()
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '<':
			result.WriteString(`\textless{}`)
		case '>':
			result.WriteString(`\textgreater{}`)
		default:
			result.WriteRune(r)
		}
	}

	// Trailing line breaks are dropped
	return result.String()
}
