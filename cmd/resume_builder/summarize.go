package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/docfile"
	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [document]",
	Short: "Draft the summary section with Gemini",
	Long: `Drafts a summary from the name, roles, skills and education in the document and stores it in the summary section.
Without an API key, or when the model fails, a fixed fallback summary is used. An existing summary is only replaced with --rewrite.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

var (
	summarizeOut     string
	summarizeRewrite bool
	summarizeAPIKey  string
)

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeOut, "out", "o", "", "Write the updated document here instead of in place")
	summarizeCmd.Flags().BoolVar(&summarizeRewrite, "rewrite", false, "Tighten an existing summary instead of skipping it")
	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	summarizeCmd.Flags().StringVar(&summarizeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if summarizeAPIKey != "" {
		cfg.APIKey = summarizeAPIKey
	}
	path, err := documentPath(args, cfg)
	if err != nil {
		return err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var drafter *assist.Drafter
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		drafter = assist.NewDrafter(client)
	}

	updated, text, err := summarizeDocument(ctx, doc, drafter, summarizeRewrite)
	if err != nil {
		return err
	}
	if updated == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Document already has a summary (use --rewrite to replace it)")
		return nil
	}

	target := path
	if summarizeOut != "" {
		target = summarizeOut
	}
	if err := docfile.Save(target, updated); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Summary: %s\nWrote %s\n", text, target)
	return nil
}

// summarizeDocument returns doc with a drafted summary, or nil when doc
// already has one and rewrite is false
func summarizeDocument(ctx context.Context, doc *types.ResumeDocument, drafter *assist.Drafter, rewrite bool) (*types.ResumeDocument, string, error) {
	var text string
	switch {
	case assist.NeedsSummary(doc):
		text = assist.DraftOrFallback(ctx, drafter, assist.InputFromDocument(doc))
	case rewrite:
		current := doc.SectionsOfKind(types.KindSummary)[0].Entries[0].Text("text")
		rewritten, err := drafter.Rewrite(ctx, assist.InputFromDocument(doc).Name, current)
		if err != nil {
			return nil, "", fmt.Errorf("failed to rewrite summary: %w", err)
		}
		text = rewritten
	default:
		return nil, "", nil
	}

	updated, err := edit.Apply(doc, assist.SummaryOperation(doc, text))
	if err != nil {
		return nil, "", fmt.Errorf("failed to store summary: %w", err)
	}
	return updated, text, nil
}
