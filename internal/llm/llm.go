// Package llm adapts external AI assistants for the orchestrator's last
// resolver tier. Uses net/http directly; the assistant is a pure fallback
// with no retry logic of its own.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Assistant answers a free-text question with optional business background.
// Invoked only after every local tier produced nothing.
type Assistant interface {
	Ask(ctx context.Context, question, background string) (string, error)
	Name() string
}

// Config selects and configures an assistant backend.
type Config struct {
	Provider string // "google" or "openrouter"
	Model    string
	APIKey   string // empty = read from env
	BaseURL  string // optional override
}

// New creates an assistant from config.
func New(cfg Config) (Assistant, error) {
	switch strings.ToLower(cfg.Provider) {
	case "google":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("google assistant requires GEMINI_API_KEY or GOOGLE_API_KEY")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-2.5-flash"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		return &googleAssistant{apiKey: key, model: model, baseURL: baseURL}, nil

	case "openrouter":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("OPENROUTER_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("openrouter assistant requires OPENROUTER_API_KEY")
		}
		model := cfg.Model
		if model == "" {
			model = "openai/gpt-4o-mini"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		return &openrouterAssistant{apiKey: key, model: model, baseURL: baseURL}, nil

	default:
		return nil, fmt.Errorf("unknown assistant provider %q (supported: google, openrouter)", cfg.Provider)
	}
}

// ParseModelFlag parses "provider/model" (e.g. "google/gemini-2.5-flash",
// "openrouter/openai/gpt-4o-mini") into a Config. Empty input selects the
// google default.
func ParseModelFlag(flag string) (Config, error) {
	if strings.TrimSpace(flag) == "" {
		return Config{Provider: "google", Model: "gemini-2.5-flash"}, nil
	}
	parts := strings.SplitN(flag, "/", 2)
	if len(parts) < 2 {
		return Config{}, fmt.Errorf("invalid model flag %q: expected provider/model", flag)
	}
	provider := strings.ToLower(parts[0])
	switch provider {
	case "google", "openrouter":
		return Config{Provider: provider, Model: parts[1]}, nil
	default:
		return Config{}, fmt.Errorf("unknown provider %q in model flag (supported: google, openrouter)", provider)
	}
}
