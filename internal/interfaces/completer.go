package interfaces

import "context"

// Completer is one LLM provider. Consumers build the prompt, validate the
// returned text at their own boundary and fall back to static data when the
// provider reports it is not configured.
type Completer interface {
	// Complete sends a system + user prompt and returns the raw model text.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// Provider names the backing provider, for logs.
	Provider() string
}
