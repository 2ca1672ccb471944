// Package noop is the terminal entry of the provider fallback chain, used
// when no LLM API key is configured. Consumers absorb ErrNotConfigured
// into their static fallback data instead of failing the request.
package noop

import (
	"context"
	"errors"
)

// ErrNotConfigured signals that no provider is available at all.
var ErrNotConfigured = errors.New("llm: no provider configured")

type NoopCompleter struct{}

func New() *NoopCompleter {
	return &NoopCompleter{}
}

func (n *NoopCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	return "", ErrNotConfigured
}

func (n *NoopCompleter) Provider() string { return "none" }
