// Package behavior flags time-windowed patterns over recent trades. The
// counts produced here are heuristic evidence handed to the AI coach, not
// ground truth; qualitative risk labels are assigned downstream.
package behavior

import (
	"time"

	"tradequest-server/internal/types"
)

const (
	// DefaultWindowTrades bounds the scan to the most recent trades.
	DefaultWindowTrades = 20
	// DefaultRevengeThreshold is the max gap between closing a loss and
	// closing the next trade for the pair to count as a revenge signal.
	DefaultRevengeThreshold = 180 * time.Second
)

// CountRevengeSignals counts losses that were followed by another trade
// closing within threshold. Input is newest-first; for a loss at index i,
// trades[i-1] is the trade placed after it in time. Pairs with a missing
// timestamp are excluded, never counted as a zero gap.
func CountRevengeSignals(ts []types.Trade, windowTrades int, threshold time.Duration) int {
	if windowTrades <= 0 {
		windowTrades = DefaultWindowTrades
	}
	if threshold <= 0 {
		threshold = DefaultRevengeThreshold
	}
	if len(ts) > windowTrades {
		ts = ts[:windowTrades]
	}

	thresholdSec := int64(threshold / time.Second)
	count := 0
	for i := 1; i < len(ts); i++ {
		if ts[i].Outcome != types.Loss {
			continue
		}
		lossTime := ts[i].SellTime
		nextTime := ts[i-1].SellTime
		if lossTime == 0 || nextTime == 0 {
			continue
		}
		gap := nextTime - lossTime
		if gap > 0 && gap < thresholdSec {
			count++
		}
	}
	return count
}
