// Package llm provides the model configuration and client used to draft resume text.
package llm

import "os"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short drafting such as a three-line summary
	TierLite ModelTier = "lite"
	// TierStandard is for longer rewriting
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps drafts close to the facts given in the prompt
const DefaultTemperature float32 = 0.4

// DefaultMaxOutputTokens bounds a drafted summary
const DefaultMaxOutputTokens int32 = 256

// Config holds the model configuration
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-flash-latest",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// ConfigFromEnv returns the default configuration with GEMINI_MODEL, when
// set, used for every tier
func ConfigFromEnv() *Config {
	config := DefaultConfig()
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config = config.WithModel(TierLite, model).WithModel(TierStandard, model)
	}
	return config
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:        c.Provider,
		Models:          make(map[ModelTier]string, len(c.Models)+1),
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
