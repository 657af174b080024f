// Package validation checks rendered resumes: PDF page count, text read-back and line lengths.
package validation

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/types"
)

// Options bounds the checks run on a rendered PDF
type Options struct {
	// MaxPages reports a page_overflow error above this count; zero disables the check
	MaxPages int
	// MaxCharsPerLine reports line_too_long warnings for longer display lines; zero disables the check
	MaxCharsPerLine int
}

// CheckPDF verifies a rendered PDF against the input it was rendered from:
// the page count stays within bounds and every section title and the
// document title can be read back from the text layer.
func CheckPDF(data []byte, input *export.RenderInput, opts Options) (*types.Violations, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, &Error{Message: "output is not a PDF"}
	}

	var violations []types.Violation

	pages, err := CountPDFPages(data)
	if err != nil {
		return nil, err
	}
	if opts.MaxPages > 0 && pages > opts.MaxPages {
		violations = append(violations, types.Violation{
			Type:     types.ViolationPageOverflow,
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("Resume has %d pages, maximum is %d", pages, opts.MaxPages),
		})
	}

	text, err := ExtractPDFText(data)
	if err != nil {
		violations = append(violations, types.Violation{
			Type:     types.ViolationUnreadablePDF,
			Severity: types.SeverityWarning,
			Details:  fmt.Sprintf("Text could not be read back from the PDF: %v", err),
		})
	} else if input != nil {
		violations = append(violations, missingText(text, input)...)
	}

	if input != nil && opts.MaxCharsPerLine > 0 {
		violations = append(violations, CheckLineLengths(input, opts.MaxCharsPerLine)...)
	}

	return &types.Violations{Violations: violations}, nil
}

// CheckPDFFile reads a PDF from disk and runs CheckPDF on it
func CheckPDFFile(path string, input *export.RenderInput, opts Options) (*types.Violations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{
			Message: fmt.Sprintf("failed to read PDF file: %s", path),
			Cause:   err,
		}
	}
	return CheckPDF(data, input, opts)
}

func missingText(text string, input *export.RenderInput) []types.Violation {
	haystack := squash(text)

	var violations []types.Violation
	expect := func(label, want string, kind types.SectionKind) {
		if want == "" || strings.Contains(haystack, squash(want)) {
			return
		}
		violations = append(violations, types.Violation{
			Type:     types.ViolationMissingText,
			Severity: types.SeverityWarning,
			Details:  fmt.Sprintf("%s %q was not found in the PDF text", label, want),
			Kind:     kind,
		})
	}

	expect("Document title", input.DocumentTitle, types.KindContactInfo)
	for _, section := range input.Sections {
		if section.Kind == types.KindContactInfo {
			continue
		}
		expect("Section title", section.Title, section.Kind)
	}
	return violations
}

// squash lowercases text and drops whitespace, since PDF text extraction
// does not reliably preserve spacing
func squash(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
