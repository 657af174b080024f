package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-builder/internal/docfile"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [document]",
	Short: "Reprint the preview whenever the document file changes",
	Long: `Watches a document file and reprints its preview after every save.
Each save is applied to one editing session as a single revision, so unchanged sections are served from the preview cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchHTML string

func init() {
	watchCmd.Flags().StringVar(&watchHTML, "html", "", "Also rewrite the preview as an HTML page at this path on every change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := documentPath(args, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := newPreviewWatcher(cmd.OutOrStdout(), session.Options{Debounce: cfg.Debounce(), Verbose: cfg.Verbose}, watchHTML, cfg.Verbose)
	defer w.sess.Close()

	// print the current state before waiting for changes
	if err := w.reload(ctx, path); err != nil {
		log.Printf("[watch] %v", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", path)

	return watch.File(ctx, path, 0, w.reload)
}

// previewWatcher replays a document file into one session on every change
type previewWatcher struct {
	sess    *session.Session
	printer *observability.Printer
	html    string
	verbose bool
}

func newPreviewWatcher(out io.Writer, opts session.Options, html string, verbose bool) *previewWatcher {
	return &previewWatcher{
		sess:    session.New("watch", nil, opts),
		printer: observability.NewPrinter(out),
		html:    html,
		verbose: verbose,
	}
}

func (w *previewWatcher) reload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	f, err := docfile.Parse(data, docfile.FormatFor(path))
	if err != nil {
		return err
	}
	batch, err := f.Batch("reload " + path)
	if err != nil {
		return err
	}
	if _, err := w.sess.Apply(batch); err != nil {
		return fmt.Errorf("failed to apply %s: %w", path, err)
	}

	snap, err := w.sess.Preview(ctx)
	if err != nil {
		return err
	}
	w.printer.PrintPreview(snap)
	if !snap.Complete {
		w.printer.PrintMissing(snap.Missing)
	}
	if w.verbose {
		w.printer.PrintCacheStats(w.sess.Stats())
	}
	if w.html != "" {
		if err := writePreviewHTML(w.html, snap); err != nil {
			return err
		}
	}
	return nil
}
