package trades

import (
	"time"

	"tradequest-server/internal/types"
)

// Aggregate computes session statistics over one batch of trades, newest
// first. An empty batch is a valid state: all counters zero.
func Aggregate(ts []types.Trade) types.SessionStats {
	stats := types.SessionStats{TotalTrades: len(ts)}

	sum := 0.0
	for _, t := range ts {
		if t.Outcome == types.Win {
			stats.Wins++
		} else {
			stats.Losses++
		}
		sum += t.Pnl
	}
	// Round the sum once; summing pre-rounded addends would compound error.
	stats.TotalPnl = Round2(sum)

	if len(ts) > 0 {
		stats.WinRate = Round1(float64(stats.Wins) / float64(len(ts)) * 100)
	}

	stats.Streak = streak(ts)
	return stats
}

// streak walks from the most recent trade backward in time and stops the
// moment a trade breaks the established direction.
func streak(ts []types.Trade) int {
	s := 0
	for _, t := range ts {
		switch {
		case s == 0:
			if t.Outcome == types.Win {
				s = 1
			} else {
				s = -1
			}
		case s > 0 && t.Outcome == types.Win:
			s++
		case s < 0 && t.Outcome == types.Loss:
			s--
		default:
			return s
		}
	}
	return s
}

// PnlSeries emits the cumulative P&L curve in chronological order. Input is
// newest-first, so it is walked back to front; every point's running sum is
// independently rounded to 2 decimals.
func PnlSeries(ts []types.Trade) []types.PnlPoint {
	points := make([]types.PnlPoint, 0, len(ts))
	cum := 0.0
	for i := len(ts) - 1; i >= 0; i-- {
		cum += ts[i].Pnl
		points = append(points, types.PnlPoint{
			Time: time.Unix(ts[i].SellTime, 0).UTC().Format("15:04"),
			Pnl:  Round2(cum),
		})
	}
	return points
}
