package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/docfile"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/spf13/cobra"
)

// loadSettings merges the config file, the environment and the defaults.
// Flags are applied by each command afterwards.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid config file: %w", err)
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// documentPath picks the document from the first argument or the config
func documentPath(args []string, cfg config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Document != "" {
		return cfg.Document, nil
	}
	return "", fmt.Errorf("no document given: pass a path or set \"document\" in the config file")
}

// loadDocument reads the document and rejects structurally broken ones
func loadDocument(path string) (*types.ResumeDocument, error) {
	doc, err := docfile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := types.Validate(doc).Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

func renderOptions(cfg config.Config) rendering.Options {
	return rendering.Options{TemplatePath: cfg.Template, Timeout: rendering.DefaultTimeout}
}

func checkOptions(cfg config.Config) validation.Options {
	return validation.Options{MaxPages: cfg.MaxPages, MaxCharsPerLine: cfg.MaxCharsPerLine}
}
