// Package llmobs wraps a Completer with logging and tracing.
package llmobs

import (
	"context"
	"errors"

	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/llm/noop"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/trace"
)

type observableCompleter struct {
	completer interfaces.Completer
}

var _ interfaces.Completer = (*observableCompleter)(nil)

// Wrap wraps a completer with observability middleware.
func Wrap(completer interfaces.Completer) interfaces.Completer {
	return &observableCompleter{completer: completer}
}

func (oc *observableCompleter) Provider() string {
	return oc.completer.Provider()
}

func (oc *observableCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting completion",
		"provider", oc.completer.Provider(),
		"prompt_chars", len(prompt),
	)

	text, err := oc.completer.Complete(ctx, system, prompt)
	if err != nil {
		// Not-configured is the expected fallback path, not a failure.
		if errors.Is(err, noop.ErrNotConfigured) {
			logger.DebugSkip(ctx, 1, "No LLM provider configured")
			return "", err
		}
		logger.ErrorWithErrSkip(ctx, 1, "Completion failed", err,
			"provider", oc.completer.Provider(),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Completion received",
		"provider", oc.completer.Provider(),
		"response_chars", len(text),
	)
	return text, nil
}
