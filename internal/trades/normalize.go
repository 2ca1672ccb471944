// Package trades turns raw Deriv profit-table rows into canonical Trade
// records and derives the session statistics the dashboard and AI coach
// consume. Everything in here is a pure transform over one bounded batch.
package trades

import (
	"fmt"
	"math"
	"time"

	"tradequest-server/internal/deriv"
	"tradequest-server/internal/shortcode"
	"tradequest-server/internal/types"
)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round1 rounds to 1 decimal place, half away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Normalize maps raw transactions to canonical Trades, order-preserving
// (the broker supplies newest-first and that order is kept). It never
// fails: missing fields degrade per-field to zero values and fallback
// labels, a messy row never drops the whole batch.
func Normalize(txs []deriv.Transaction) []types.Trade {
	return normalizeAt(txs, time.Now())
}

func normalizeAt(txs []deriv.Transaction, now time.Time) []types.Trade {
	out := make([]types.Trade, 0, len(txs))
	for i, tx := range txs {
		pnl := Round2(tx.SellPrice - tx.BuyPrice)

		outcome := types.Win
		if pnl < 0 {
			outcome = types.Loss
		}

		id := tx.TransactionID
		if id == 0 {
			// Synthetic id: 1-based position, valid within this batch only.
			id = int64(i + 1)
		}

		var duration *int64
		if tx.SellTime != 0 && tx.PurchaseTime != 0 {
			d := tx.SellTime - tx.PurchaseTime
			if d < 0 {
				// Clock skew between purchase and sell stamps; clamp
				// rather than report a negative hold time.
				d = 0
			}
			duration = &d
		}

		var contractID string
		if tx.ContractID != 0 {
			contractID = fmt.Sprintf("%d", tx.ContractID)
		}

		out = append(out, types.Trade{
			ID:              id,
			Instrument:      shortcode.ParseInstrument(tx.Shortcode),
			ContractType:    shortcode.ParseContractType(tx.Shortcode),
			Outcome:         outcome,
			Pnl:             pnl,
			BuyPrice:        tx.BuyPrice,
			SellPrice:       tx.SellPrice,
			Time:            formatTimeAgo(tx.SellTime, now),
			SellTime:        tx.SellTime,
			PurchaseTime:    tx.PurchaseTime,
			Longcode:        tx.Longcode,
			Shortcode:       tx.Shortcode,
			DurationSeconds: duration,
			ContractID:      contractID,
		})
	}
	return out
}

// formatTimeAgo renders an epoch as a coarse relative label for trade rows.
func formatTimeAgo(ts int64, now time.Time) string {
	if ts == 0 {
		return "Unknown"
	}
	d := now.Sub(time.Unix(ts, 0))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
