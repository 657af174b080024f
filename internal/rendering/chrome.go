// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import (
	"context"
	"log"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/resume-builder/internal/export"
)

// ChromeRenderer prints the HTML rendering to PDF in headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	opts Options
}

// NewChromeRenderer creates a headless Chrome PDF renderer
func NewChromeRenderer(opts Options) *ChromeRenderer {
	return &ChromeRenderer{opts: opts}
}

// Name implements Renderer
func (r *ChromeRenderer) Name() string { return BackendChrome }

// ContentType implements Renderer
func (r *ChromeRenderer) ContentType() string { return "application/pdf" }

// Extension implements Renderer
func (r *ChromeRenderer) Extension() string { return ".pdf" }

// Render implements Renderer
func (r *ChromeRenderer) Render(ctx context.Context, input *export.RenderInput) ([]byte, error) {
	html, err := NewHTMLRenderer().Render(ctx, input)
	if err != nil {
		return nil, &RenderBackendError{Backend: BackendChrome, Message: "failed to render HTML", Cause: err}
	}
	pdf, err := PrintToPDF(ctx, string(html), r.opts)
	if err != nil {
		return nil, &RenderBackendError{Backend: BackendChrome, Message: "failed to print PDF", Cause: err}
	}
	return pdf, nil
}

// PrintToPDF loads an HTML document into a headless browser and prints it as a Letter-size PDF
func PrintToPDF(ctx context.Context, html string, opts Options) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.timeout())
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("[chrome] printed %d bytes of HTML into %d bytes of PDF", len(html), len(pdf))
	return pdf, nil
}
