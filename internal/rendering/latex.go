// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-builder/internal/export"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

const latexTemplateName = "templates/resume.tex.tmpl"

// LaTeXRenderer renders LaTeX source from the resume template
type LaTeXRenderer struct {
	templatePath string
}

// NewLaTeXRenderer creates a LaTeX renderer. An empty templatePath uses the embedded template.
func NewLaTeXRenderer(templatePath string) *LaTeXRenderer {
	return &LaTeXRenderer{templatePath: templatePath}
}

// Name implements Renderer
func (r *LaTeXRenderer) Name() string { return BackendLaTeX }

// ContentType implements Renderer
func (r *LaTeXRenderer) ContentType() string { return "application/x-tex" }

// Extension implements Renderer
func (r *LaTeXRenderer) Extension() string { return ".tex" }

// Render implements Renderer
func (r *LaTeXRenderer) Render(ctx context.Context, input *export.RenderInput) ([]byte, error) {
	out, err := RenderLaTeX(ctx, input, r.templatePath)
	if err != nil {
		return nil, &RenderBackendError{Backend: BackendLaTeX, Message: "failed to render LaTeX", Cause: err}
	}
	return out, nil
}

// RenderLaTeX executes the LaTeX template against input
func RenderLaTeX(ctx context.Context, input *export.RenderInput, templatePath string) ([]byte, error) {
	if input == nil {
		return nil, &TemplateError{Message: "render input is nil"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := parseLaTeXTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, input); err != nil {
		return nil, &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return buf.Bytes(), nil
}

// parseLaTeXTemplate reads and parses a LaTeX template file, or the embedded one
func parseLaTeXTemplate(templatePath string) (*template.Template, error) {
	var content []byte
	var err error
	if templatePath == "" {
		content, err = templateFiles.ReadFile(latexTemplateName)
	} else {
		content, err = os.ReadFile(templatePath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	// Parse template with custom functions for LaTeX escaping
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape":      EscapeLaTeX,
		"joinEscaped": joinEscaped,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

func joinEscaped(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = EscapeLaTeX(item)
	}
	return strings.Join(escaped, ", ")
}
