package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [document]",
	Short: "Print the live preview of a resume document",
	Long:  "Projects the document into its preview and prints it. Incomplete documents are previewed too, with the missing fields listed.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var previewHTML string

func init() {
	previewCmd.Flags().StringVar(&previewHTML, "html", "", "Also write the preview as an HTML page to this path")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
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

	snap := preview.NewProjector().Project(doc)
	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintPreview(snap)
	if !snap.Complete {
		printer.PrintMissing(snap.Missing)
	}

	if previewHTML != "" {
		if err := writePreviewHTML(previewHTML, snap); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Preview page: %s\n", previewHTML)
	}
	return nil
}

func writePreviewHTML(path string, snap *preview.Snapshot) error {
	page, err := rendering.RenderPreviewHTML(snap)
	if err != nil {
		return fmt.Errorf("failed to render preview page: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, page, 0644); err != nil {
		return fmt.Errorf("failed to write preview page: %w", err)
	}
	return nil
}
