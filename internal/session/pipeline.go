// Package session runs one fetch-and-derive cycle: profit table + balance
// from the trade source, normalization, aggregation, response assembly.
// Every run is self-contained; nothing is cached or shared between runs.
package session

import (
	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/trades"
	"tradequest-server/internal/types"

	"context"
)

// DefaultCurrency is reported when the balance snapshot carries none.
const DefaultCurrency = "USD"

type Pipeline struct {
	source interfaces.TradeSource
	limit  int
}

func New(source interfaces.TradeSource, limit int) *Pipeline {
	return &Pipeline{source: source, limit: limit}
}

// Run fetches the current snapshot for the given token and derives the full
// session report. A fetch failure is terminal: the error is returned and no
// partial report is produced. Zero transactions is a valid, non-error state.
func (p *Pipeline) Run(ctx context.Context, token string) (*types.SessionReport, error) {
	history, err := p.source.FetchHistory(ctx, token, p.limit)
	if err != nil {
		return nil, err
	}

	ts := trades.Normalize(history.Transactions)

	report := &types.SessionReport{
		Trades:      ts,
		Stats:       trades.Aggregate(ts),
		PnlOverTime: trades.PnlSeries(ts),
		Currency:    DefaultCurrency,
	}
	if history.Balance != nil {
		balance := history.Balance.Balance
		report.Balance = &balance
		if history.Balance.Currency != "" {
			report.Currency = history.Balance.Currency
		}
	}
	return report, nil
}
