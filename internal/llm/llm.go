// Package llm selects the LLM provider. Providers are an ordered fallback
// chain: a forced provider from config wins, otherwise the first provider
// with an API key in the environment, otherwise the noop completer whose
// ErrNotConfigured consumers absorb into static fallback data.
package llm

import (
	"os"

	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/llm/gemini"
	"tradequest-server/internal/llm/llmobs"
	"tradequest-server/internal/llm/noop"
	"tradequest-server/internal/llm/openai"
	"tradequest-server/internal/store"
)

// ErrNotConfigured re-exports the noop sentinel for consumers.
var ErrNotConfigured = noop.ErrNotConfigured

// NewFromEnv builds the completer for the configured (or auto-detected)
// provider, wrapped with observability middleware.
func NewFromEnv(cfg *store.Config) interfaces.Completer {
	return llmobs.Wrap(selectProvider(cfg))
}

func selectProvider(cfg *store.Config) interfaces.Completer {
	switch cfg.LLM.Provider {
	case "GEMINI":
		return gemini.New(cfg)
	case "OPENAI":
		return openai.New(cfg)
	case "NONE":
		return noop.New()
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		return gemini.New(cfg)
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return openai.New(cfg)
	}
	return noop.New()
}
