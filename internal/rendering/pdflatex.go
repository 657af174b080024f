// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-builder/internal/export"
)

// PDFLaTeXRenderer renders LaTeX source and compiles it with pdflatex
type PDFLaTeXRenderer struct {
	opts Options
}

// NewPDFLaTeXRenderer creates a pdflatex-backed PDF renderer
func NewPDFLaTeXRenderer(opts Options) *PDFLaTeXRenderer {
	return &PDFLaTeXRenderer{opts: opts}
}

// Name implements Renderer
func (r *PDFLaTeXRenderer) Name() string { return BackendPDFLaTeX }

// ContentType implements Renderer
func (r *PDFLaTeXRenderer) ContentType() string { return "application/pdf" }

// Extension implements Renderer
func (r *PDFLaTeXRenderer) Extension() string { return ".pdf" }

// Render implements Renderer
func (r *PDFLaTeXRenderer) Render(ctx context.Context, input *export.RenderInput) ([]byte, error) {
	source, err := RenderLaTeX(ctx, input, r.opts.TemplatePath)
	if err != nil {
		return nil, &RenderBackendError{Backend: BackendPDFLaTeX, Message: "failed to render LaTeX", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout())
	defer cancel()
	return CompileLaTeX(ctx, source, r.opts.WorkDir)
}

// CompileLaTeX compiles LaTeX source with pdflatex and returns the PDF bytes.
// An empty workDir compiles in a temporary directory that is removed afterwards.
func CompileLaTeX(ctx context.Context, source []byte, workDir string) ([]byte, error) {
	// Check if pdflatex is available
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return nil, &RenderBackendError{
			Backend: BackendPDFLaTeX,
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	if workDir == "" {
		tmp, err := os.MkdirTemp("", "latex-compile-*")
		if err != nil {
			return nil, &RenderBackendError{Backend: BackendPDFLaTeX, Message: "failed to create temporary working directory", Cause: err}
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		workDir = tmp
	} else if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, &RenderBackendError{
			Backend: BackendPDFLaTeX,
			Message: fmt.Sprintf("failed to create working directory: %s", workDir),
			Cause:   err,
		}
	}

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, source, 0644); err != nil {
		return nil, &RenderBackendError{
			Backend: BackendPDFLaTeX,
			Message: fmt.Sprintf("failed to write LaTeX file to working directory: %s", workDir),
			Cause:   err,
		}
	}

	// -interaction=nonstopmode keeps pdflatex from waiting on stdin
	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, texPath)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	logOutput := stdout.String() + stderr.String()

	if ctx.Err() != nil {
		return nil, &RenderBackendError{Backend: BackendPDFLaTeX, Message: "compilation cancelled", LogOutput: logOutput, Cause: ctx.Err()}
	}

	pdfPath := filepath.Join(workDir, "resume.pdf")
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &RenderBackendError{
			Backend:   BackendPDFLaTeX,
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	if runErr != nil {
		return nil, &RenderBackendError{
			Backend:   BackendPDFLaTeX,
			Message:   "LaTeX compilation completed with errors",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	log.Printf("[pdflatex] compiled %d bytes of LaTeX into %d bytes of PDF", len(source), len(pdf))
	return pdf, nil
}
