// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/types"
)

const htmlTemplateName = "templates/resume.html.tmpl"

var (
	htmlTemplate    *template.Template
	htmlTemplateErr error
	htmlOnce        sync.Once
)

// htmlPage is the data passed to the HTML template. Sections is either
// []export.RenderSection or []preview.SectionView; both expose Kind,
// Title and Entries with a Display.
type htmlPage struct {
	Title    string
	Sections any
}

func loadHTMLTemplate() (*template.Template, error) {
	htmlOnce.Do(func() {
		content, err := templateFiles.ReadFile(htmlTemplateName)
		if err != nil {
			htmlTemplateErr = &TemplateError{Message: "failed to read HTML template", Cause: err}
			return
		}
		htmlTemplate, err = template.New("resume.html").Funcs(template.FuncMap{
			"join": strings.Join,
		}).Parse(string(content))
		if err != nil {
			htmlTemplateErr = &TemplateError{Message: "failed to parse HTML template", Cause: err}
		}
	})
	return htmlTemplate, htmlTemplateErr
}

func executeHTML(page htmlPage) ([]byte, error) {
	tmpl, err := loadHTMLTemplate()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return buf.Bytes(), nil
}

// HTMLRenderer renders a standalone HTML page
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Name implements Renderer
func (r *HTMLRenderer) Name() string { return BackendHTML }

// ContentType implements Renderer
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Extension implements Renderer
func (r *HTMLRenderer) Extension() string { return ".html" }

// Render implements Renderer
func (r *HTMLRenderer) Render(ctx context.Context, input *export.RenderInput) ([]byte, error) {
	if input == nil {
		return nil, &RenderBackendError{Backend: BackendHTML, Message: "render input is nil"}
	}
	if err := ctx.Err(); err != nil {
		return nil, &RenderBackendError{Backend: BackendHTML, Message: "render cancelled", Cause: err}
	}
	out, err := executeHTML(htmlPage{Title: input.DocumentTitle, Sections: input.Sections})
	if err != nil {
		return nil, &RenderBackendError{Backend: BackendHTML, Message: "failed to render HTML", Cause: err}
	}
	return out, nil
}

// RenderPreviewHTML renders a live preview snapshot with the same layout as
// the HTML export. Unlike an export it accepts incomplete documents.
func RenderPreviewHTML(snap *preview.Snapshot) ([]byte, error) {
	if snap == nil {
		snap = &preview.Snapshot{}
	}
	title := "Resume preview"
	for _, section := range snap.Sections {
		if section.Kind == types.KindContactInfo && len(section.Entries) > 0 && section.Entries[0].Display.Heading != "" {
			title = section.Entries[0].Display.Heading
			break
		}
	}
	return executeHTML(htmlPage{Title: title, Sections: snap.Sections})
}
