package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the live preview API server",
	Long:  `Start an HTTP server that keeps editing sessions in memory and exposes edits, previews, a preview stream and exports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	// The API key is optional; summaries fall back to a fixed text without it
	var drafter *assist.Drafter
	if cfg.APIKey != "" {
		client, err := llm.NewClient(context.Background(), llm.ConfigFromEnv(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		drafter = assist.NewDrafter(client)
	} else {
		log.Printf("[serve] GEMINI_API_KEY not set, summaries use the fallback text")
	}

	srv, err := server.New(server.Config{
		Port: cfg.Port,
		Sessions: session.ManagerConfig{
			Session:     session.Options{Debounce: cfg.Debounce(), Verbose: cfg.Verbose},
			IdleTimeout: cfg.IdleTimeout(),
			MaxSessions: cfg.MaxSessions,
		},
		PDFRenderer:     cfg.Renderer,
		Render:          renderOptions(cfg),
		Check:           checkOptions(cfg),
		Drafter:         drafter,
		JanitorInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
