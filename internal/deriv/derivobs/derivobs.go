// Package derivobs wraps a TradeSource with logging and tracing.
package derivobs

import (
	"context"

	"tradequest-server/internal/deriv"
	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/trace"
)

type observableSource struct {
	source interfaces.TradeSource
}

var _ interfaces.TradeSource = (*observableSource)(nil)

// Wrap wraps a trade source with observability middleware.
func Wrap(source interfaces.TradeSource) interfaces.TradeSource {
	return &observableSource{source: source}
}

func (os *observableSource) FetchHistory(ctx context.Context, token string, limit int) (*deriv.History, error) {
	ctx, span := trace.StartSpan(ctx, "deriv.FetchHistory")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching trade history", "limit", limit)

	history, err := os.source.FetchHistory(ctx, token, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trade history fetch failed", err)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Trade history fetched",
		"transactions", len(history.Transactions),
		"has_balance", history.Balance != nil,
	)
	return history, nil
}
