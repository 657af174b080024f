package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/docfile"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [document]",
	Short: "Validate a resume document",
	Long: `Validates a document file: structural invariants, required fields and field formats.
When the document is complete its RenderInput is also checked against the JSON schema and the line length limit.
With --pdf, an already rendered PDF is checked against the document: page limit and section titles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var (
	checkStrict bool
	checkPDF    string
)

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Fail when required fields are missing")
	checkCmd.Flags().StringVar(&checkPDF, "pdf", "", "Rendered PDF to check against the document")
	rootCmd.AddCommand(checkCmd)
}

// checkReport is the outcome of checking a document
type checkReport struct {
	Result     *types.ValidationResult
	Violations *types.Violations
	// Input is set when the document is complete
	Input *export.RenderInput
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := documentPath(args, cfg)
	if err != nil {
		return err
	}
	doc, err := loadCheckedFile(path)
	if err != nil {
		return err
	}

	report, err := checkDocument(cmd.Context(), doc, cfg.MaxCharsPerLine)
	if err != nil {
		return err
	}

	var pdfFindings *types.Violations
	if checkPDF != "" && report.Input != nil {
		opts := checkOptions(cfg)
		opts.MaxCharsPerLine = 0 // already checked on the document
		pdfFindings, err = validation.CheckPDFFile(checkPDF, report.Input, opts)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", checkPDF, err)
		}
		report.Violations.Violations = append(report.Violations.Violations, pdfFindings.Violations...)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintViolations(report.Violations)
	printer.PrintMissing(report.Result.Missing)

	if !report.Result.Valid() {
		return report.Result.Err()
	}
	if checkPDF != "" && report.Input == nil {
		return fmt.Errorf("cannot check %s: the document is incomplete", checkPDF)
	}
	if pdfFindings != nil && pdfFindings.HasErrors() {
		return fmt.Errorf("%s failed the PDF checks", checkPDF)
	}
	if checkStrict && !report.Result.Complete() {
		return fmt.Errorf("document is incomplete: %d required field(s) missing", len(report.Result.Missing))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Checked %s (revision %d)\n", path, doc.Revision)
	return nil
}

// loadCheckedFile validates the file against the document schema before
// building the document from it
func loadCheckedFile(path string) (*types.ResumeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file %s: %w", path, err)
	}
	format := docfile.FormatFor(path)
	f, err := docfile.Parse(data, format)
	if err != nil {
		return nil, err
	}
	asJSON, err := f.Encode(docfile.FormatJSON)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateDocument(asJSON); err != nil {
		return nil, fmt.Errorf("document file does not match its schema: %w", err)
	}
	return docfile.Decode(data, format)
}

// checkDocument validates doc and, when it is complete, its serialized form
func checkDocument(ctx context.Context, doc *types.ResumeDocument, maxChars int) (*checkReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := types.Validate(doc)
	report := &checkReport{Result: result, Violations: &types.Violations{}}
	report.Violations.Violations = append(report.Violations.Violations, result.Structural...)
	report.Violations.Violations = append(report.Violations.Violations, result.Warnings...)
	if !result.Complete() {
		return report, nil
	}

	input, err := export.Serialize(ctx, doc)
	if err != nil {
		var incomplete *export.IncompleteDocumentError
		if errors.As(err, &incomplete) {
			result.Missing = append(result.Missing, incomplete.Missing...)
			return report, nil
		}
		return nil, err
	}
	data, err := export.Marshal(input)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateRenderInput(data); err != nil {
		return nil, fmt.Errorf("render input does not match its schema: %w", err)
	}
	report.Input = input
	if maxChars > 0 {
		report.Violations.Violations = append(report.Violations.Violations, validation.CheckLineLengths(input, maxChars)...)
	}
	return report, nil
}
