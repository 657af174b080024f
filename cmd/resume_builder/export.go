package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportCmd = &cobra.Command{
	Use:   "export [document]",
	Short: "Export a resume document",
	Long: `Serializes the document into its RenderInput and renders every requested format in parallel.
Incomplete documents are rejected with the list of missing required fields. PDF exports are checked for page count and readable section titles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportFormats  []string
	exportOutDir   string
	exportRenderer string
	exportTemplate string
	exportMaxPages int
)

func init() {
	exportCmd.Flags().StringSliceVarP(&exportFormats, "format", "f", nil, "Formats to write: json, latex, html, pdf (default from config)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().StringVar(&exportRenderer, "renderer", "", "PDF renderer: pdflatex or chrome")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Path to a LaTeX template")
	exportCmd.Flags().IntVar(&exportMaxPages, "max-pages", 0, "Maximum page count for PDF exports")
	rootCmd.AddCommand(exportCmd)
}

// exportOptions configures one export run
type exportOptions struct {
	Formats     []string
	OutDir      string
	Base        string
	PDFRenderer string
	Render      rendering.Options
	Check       validation.Options
}

// exportOutcome lists the written files and the post-export checks
type exportOutcome struct {
	Results    []observability.ExportResult
	Violations *types.Violations
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		cfg.Formats = exportFormats
	}
	if exportOutDir != "" {
		cfg.OutDir = exportOutDir
	}
	if exportRenderer != "" {
		cfg.Renderer = exportRenderer
	}
	if exportTemplate != "" {
		cfg.Template = exportTemplate
	}
	if exportMaxPages > 0 {
		cfg.MaxPages = exportMaxPages
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := documentPath(args, cfg)
	if err != nil {
		return err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	opts := optionsFromConfig(cfg, path)
	outcome, err := exportDocument(cmd.Context(), doc, opts)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintExports(outcome.Results)
	printer.PrintViolations(outcome.Violations)
	if outcome.Violations.HasErrors() {
		return fmt.Errorf("export checks failed")
	}
	return nil
}

func optionsFromConfig(cfg config.Config, docPath string) exportOptions {
	base := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	return exportOptions{
		Formats:     cfg.Formats,
		OutDir:      cfg.OutDir,
		Base:        base,
		PDFRenderer: cfg.Renderer,
		Render:      renderOptions(cfg),
		Check:       checkOptions(cfg),
	}
}

// exportDocument writes every requested format of doc into opts.OutDir.
// The RenderInput is built once and shared by all renderers.
func exportDocument(ctx context.Context, doc *types.ResumeDocument, opts exportOptions) (*exportOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	input, err := export.Serialize(ctx, doc)
	if err != nil {
		return nil, err
	}
	data, err := export.Marshal(input)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateRenderInput(data); err != nil {
		return nil, fmt.Errorf("render input does not match its schema: %w", err)
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	formats := slices.Compact(slices.Sorted(slices.Values(opts.Formats)))
	results := make([]observability.ExportResult, len(formats))
	outputs := make([][]byte, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			out, ext, err := renderFormat(gctx, format, input, data, opts)
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", format, err)
			}
			target := filepath.Join(opts.OutDir, opts.Base+ext)
			if err := os.WriteFile(target, out, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			results[i] = observability.ExportResult{Format: format, Path: target, Bytes: len(out)}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outcome := &exportOutcome{Results: results, Violations: &types.Violations{}}
	if i := slices.Index(formats, config.FormatPDF); i >= 0 {
		violations, err := validation.CheckPDF(outputs[i], input, opts.Check)
		if err != nil {
			return nil, fmt.Errorf("failed to check PDF: %w", err)
		}
		outcome.Violations = violations
	} else if opts.Check.MaxCharsPerLine > 0 {
		outcome.Violations.Violations = validation.CheckLineLengths(input, opts.Check.MaxCharsPerLine)
	}
	return outcome, nil
}

func renderFormat(ctx context.Context, format string, input *export.RenderInput, data []byte, opts exportOptions) ([]byte, string, error) {
	var backend string
	switch format {
	case config.FormatJSON:
		return data, ".json", nil
	case config.FormatLaTeX:
		backend = rendering.BackendLaTeX
	case config.FormatHTML:
		backend = rendering.BackendHTML
	case config.FormatPDF:
		backend = opts.PDFRenderer
	default:
		return nil, "", fmt.Errorf("unknown format %q", format)
	}
	r, err := rendering.New(backend, opts.Render)
	if err != nil {
		return nil, "", err
	}
	out, err := r.Render(ctx, input)
	if err != nil {
		return nil, "", err
	}
	return out, r.Extension(), nil
}
