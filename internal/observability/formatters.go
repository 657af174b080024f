// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPreview outputs the sections of a preview snapshot as they would be laid out
func (p *Printer) PrintPreview(snap *preview.Snapshot) {
	if snap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Revision: %d\n", snap.Revision))
	if snap.Complete {
		sb.WriteString("Status:   ready to export\n")
	} else {
		sb.WriteString(fmt.Sprintf("Status:   %d required fields missing\n", len(snap.Missing)))
	}

	for _, section := range snap.Sections {
		sb.WriteString(fmt.Sprintf("\n%s\n", strings.ToUpper(section.Title)))
		if len(section.Entries) == 0 {
			sb.WriteString("  (empty)\n")
		}
		count := min(len(section.Entries), maxItemsToShow)
		for i := 0; i < count; i++ {
			d := section.Entries[i].Display
			line := d.Heading
			if line == "" {
				line = truncate(d.Body, 50)
			}
			if d.Dates != "" {
				line += "  " + d.Dates
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
			if d.Subheading != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", d.Subheading))
			}
			if d.Detail != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", d.Detail))
			}
			if len(d.Items) > 0 {
				sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(d.Items, ", ")))
			}
		}
		if len(section.Entries) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(section.Entries)-maxItemsToShow))
		}
	}

	p.printBox("PREVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMissing outputs the required fields that keep a document from export
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMissing(missing []types.MissingField) {
	if len(missing) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL REQUIRED FIELDS PRESENT")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Missing %d required fields:\n\n", len(missing)))
	for _, m := range missing {
		sb.WriteString(fmt.Sprintf("✗ %s", m.Path()))
		if m.EntryID != "" {
			sb.WriteString(fmt.Sprintf(" (entry %s)", truncate(m.EntryID, 8)))
		}
		sb.WriteString("\n")
	}

	p.printBox("MISSING REQUIRED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintViolations outputs any violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		marker := "⚠"
		if v.Severity == types.SeverityError {
			marker = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(v.Details, 45)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VIOLATIONS", sb.String())
}

// ExportResult describes one written export
type ExportResult struct {
	Format string
	Path   string
	Bytes  int
}

// PrintExports outputs the files written by an export
func (p *Printer) PrintExports(results []ExportResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%-9s %s (%d bytes)\n", r.Format, r.Path, r.Bytes))
	}
	p.printBox("EXPORTED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCacheStats outputs projector cache activity
func (p *Printer) PrintCacheStats(stats preview.Stats) {
	content := fmt.Sprintf("Hits:      %d\nMisses:    %d\nEvictions: %d\nCached:    %d",
		stats.Hits, stats.Misses, stats.Evictions, stats.Cached)
	p.printBox("PREVIEW CACHE", content)
}
