// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/resume-builder/internal/export"
)

// Renderer converts a RenderInput into output bytes. Failures are *RenderBackendError.
type Renderer interface {
	Name() string
	ContentType() string
	Extension() string
	Render(ctx context.Context, input *export.RenderInput) ([]byte, error)
}

// Backend names
const (
	BackendLaTeX    = "latex"
	BackendHTML     = "html"
	BackendPDFLaTeX = "pdflatex"
	BackendChrome   = "chrome"
)

// Options configures the renderer backends
type Options struct {
	// TemplatePath overrides the embedded LaTeX template
	TemplatePath string
	// WorkDir is where pdflatex runs; a temporary directory is used when empty
	WorkDir string
	// Timeout bounds a single PDF render
	Timeout time.Duration
}

// DefaultTimeout bounds PDF rendering when Options.Timeout is zero
const DefaultTimeout = 30 * time.Second

type factory func(Options) Renderer

var backends = map[string]factory{
	BackendLaTeX:    func(o Options) Renderer { return NewLaTeXRenderer(o.TemplatePath) },
	BackendHTML:     func(Options) Renderer { return NewHTMLRenderer() },
	BackendPDFLaTeX: func(o Options) Renderer { return NewPDFLaTeXRenderer(o) },
	BackendChrome:   func(o Options) Renderer { return NewChromeRenderer(o) },
}

// New returns the renderer registered under name
func New(name string, opts Options) (Renderer, error) {
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown renderer %q (available: %v)", name, Names())
	}
	return f(opts), nil
}

// Names lists the registered backends
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
