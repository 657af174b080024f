package llm

import "strings"

// CleanText strips the wrappers models add around plain prose: markdown code
// fences, a leading "Summary:" style label and surrounding quotes.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if idx := strings.Index(text, ":"); idx > 0 && idx < 20 && !strings.Contains(text[:idx], " ") {
		text = strings.TrimSpace(text[idx+1:])
	}

	for _, q := range []string{`"`, "'", "“"} {
		closing := q
		if q == "“" {
			closing = "”"
		}
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, closing) {
			text = strings.TrimSpace(text[len(q) : len(text)-len(closing)])
			break
		}
	}
	return text
}
