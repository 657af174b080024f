// Package validation checks rendered resumes: PDF page count, text read-back and line lengths.
package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/types"
)

// CheckLineLengths warns about display lines that will wrap on the page:
// headings, subheadings and list items longer than maxChars characters.
// Body paragraphs are expected to wrap and are not checked.
func CheckLineLengths(input *export.RenderInput, maxChars int) []types.Violation {
	var violations []types.Violation
	check := func(section export.RenderSection, entry int, what, line string) {
		count := utf8.RuneCountInString(line)
		if count <= maxChars {
			return
		}
		violations = append(violations, types.Violation{
			Type:     types.ViolationLineTooLong,
			Severity: types.SeverityWarning,
			Details:  fmt.Sprintf("%s of %s entry %d has %d characters, maximum is %d", what, section.Title, entry+1, count, maxChars),
			Kind:     section.Kind,
		})
	}

	for _, section := range input.Sections {
		for i, entry := range section.Entries {
			check(section, i, "Heading", entry.Display.Heading)
			check(section, i, "Subheading", entry.Display.Subheading)
			for _, item := range entry.Display.Items {
				check(section, i, "Item", item)
			}
		}
	}
	return violations
}
