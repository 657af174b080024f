// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Export formats understood by the export command
const (
	FormatJSON  = "json"
	FormatLaTeX = "latex"
	FormatHTML  = "html"
	FormatPDF   = "pdf"
)

// PDF renderers
const (
	RendererPDFLaTeX = "pdflatex"
	RendererChrome   = "chrome"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Paths
	Document string `json:"document,omitempty"` // Path to the resume document file (YAML or JSON)
	OutDir   string `json:"out_dir,omitempty"`  // Directory exports are written to
	Template string `json:"template,omitempty"` // Path to a LaTeX template overriding the built-in one

	// Export
	Formats  []string `json:"formats,omitempty"`  // Formats written by export
	Renderer string   `json:"renderer,omitempty"` // PDF renderer: pdflatex or chrome

	// Checks
	MaxPages        int `json:"max_pages,omitempty"`          // Page limit checked after PDF export
	MaxCharsPerLine int `json:"max_chars_per_line,omitempty"` // Display line length warning threshold

	// Live preview
	DebounceMS         int `json:"debounce_ms,omitempty"`          // Preview debounce in milliseconds
	Port               int `json:"port,omitempty"`                 // HTTP server port
	IdleTimeoutMinutes int `json:"idle_timeout_minutes,omitempty"` // Session idle eviction
	MaxSessions        int `json:"max_sessions,omitempty"`         // Maximum concurrent sessions

	// Behavior
	APIKey  string `json:"api_key,omitempty"` // Gemini API key
	Verbose bool   `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		OutDir:             "out",
		Formats:            []string{FormatJSON, FormatLaTeX, FormatHTML},
		Renderer:           RendererPDFLaTeX,
		MaxPages:           2,
		MaxCharsPerLine:    90,
		DebounceMS:         75,
		Port:               8080,
		IdleTimeoutMinutes: 30,
		MaxSessions:        100,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills empty fields from the environment:
// GEMINI_API_KEY, RESUME_RENDERER and RESUME_DEBOUNCE_MS
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Renderer == "" {
		c.Renderer = os.Getenv("RESUME_RENDERER")
	}
	if c.DebounceMS == 0 {
		if v, err := strconv.Atoi(os.Getenv("RESUME_DEBOUNCE_MS")); err == nil {
			c.DebounceMS = v
		}
	}
}

// Validate checks that the configuration has valid values.
// Required values are checked by the commands after merging.
func (c *Config) Validate() error {
	numbers := []struct {
		name  string
		value int
	}{
		{"max_pages", c.MaxPages},
		{"max_chars_per_line", c.MaxCharsPerLine},
		{"debounce_ms", c.DebounceMS},
		{"idle_timeout_minutes", c.IdleTimeoutMinutes},
		{"max_sessions", c.MaxSessions},
	}
	for _, n := range numbers {
		if n.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", n.name)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	for _, f := range c.Formats {
		switch f {
		case FormatJSON, FormatLaTeX, FormatHTML, FormatPDF:
		default:
			return fmt.Errorf("config error: unknown format %q", f)
		}
	}

	switch c.Renderer {
	case "", RendererPDFLaTeX, RendererChrome:
	default:
		return fmt.Errorf("config error: 'renderer' must be %s or %s", RendererPDFLaTeX, RendererChrome)
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.Document != "" {
		if _, err := os.Stat(c.Document); os.IsNotExist(err) {
			return fmt.Errorf("config error: document file not found: %s", c.Document)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Document == "" {
		result.Document = defaults.Document
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Renderer == "" {
		result.Renderer = defaults.Renderer
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if len(result.Formats) == 0 {
		result.Formats = append([]string(nil), defaults.Formats...)
	}

	// Int fields: use default if zero
	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}
	if result.MaxCharsPerLine == 0 {
		result.MaxCharsPerLine = defaults.MaxCharsPerLine
	}
	if result.DebounceMS == 0 {
		result.DebounceMS = defaults.DebounceMS
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.IdleTimeoutMinutes == 0 {
		result.IdleTimeoutMinutes = defaults.IdleTimeoutMinutes
	}
	if result.MaxSessions == 0 {
		result.MaxSessions = defaults.MaxSessions
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Debounce returns the preview debounce as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// IdleTimeout returns the session idle timeout as a duration
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}
