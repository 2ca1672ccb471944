package behavior

import (
	"testing"
	"time"

	"tradequest-server/internal/types"
)

func trade(outcome types.Outcome, sellTime int64) types.Trade {
	return types.Trade{Outcome: outcome, SellTime: sellTime}
}

func TestCountRevengeSignals(t *testing.T) {
	// Newest-first: two losses each followed (in time) by a trade closing
	// within 60s.
	ts := []types.Trade{
		trade(types.Win, 1300),
		trade(types.Loss, 1250), // next closes 50s later
		trade(types.Win, 1000),
		trade(types.Loss, 950), // next closes 50s later
		trade(types.Win, 500),
	}
	if got := CountRevengeSignals(ts, 20, 180*time.Second); got != 2 {
		t.Errorf("signal count = %d, want 2", got)
	}
}

func TestRevengeGapOutsideThreshold(t *testing.T) {
	ts := []types.Trade{
		trade(types.Win, 2000),
		trade(types.Loss, 1000), // next closes 1000s later, beyond 180s
	}
	if got := CountRevengeSignals(ts, 20, 180*time.Second); got != 0 {
		t.Errorf("signal count = %d, want 0", got)
	}
}

func TestRevengeMostRecentLossIgnored(t *testing.T) {
	// The newest trade has nothing after it in time to evaluate.
	ts := []types.Trade{
		trade(types.Loss, 1000),
		trade(types.Win, 900),
	}
	if got := CountRevengeSignals(ts, 20, 180*time.Second); got != 0 {
		t.Errorf("signal count = %d, want 0", got)
	}
}

func TestRevengeMissingTimestampExcluded(t *testing.T) {
	ts := []types.Trade{
		trade(types.Win, 0), // missing close time: pair excluded
		trade(types.Loss, 1000),
		trade(types.Win, 990),
	}
	if got := CountRevengeSignals(ts, 20, 180*time.Second); got != 0 {
		t.Errorf("signal count = %d, want 0", got)
	}
}

func TestRevengeNegativeGapExcluded(t *testing.T) {
	// Out-of-order stamps: the "following" trade closed before the loss.
	ts := []types.Trade{
		trade(types.Win, 500),
		trade(types.Loss, 1000),
	}
	if got := CountRevengeSignals(ts, 20, 180*time.Second); got != 0 {
		t.Errorf("signal count = %d, want 0", got)
	}
}

func TestRevengeWindowBound(t *testing.T) {
	// A qualifying loss outside the window must not count.
	ts := make([]types.Trade, 0, 6)
	ts = append(ts,
		trade(types.Win, 10_000),
		trade(types.Win, 9_000),
		trade(types.Win, 8_000),
		trade(types.Win, 7_000),
		trade(types.Win, 1_050),
		trade(types.Loss, 1_000),
	)
	if got := CountRevengeSignals(ts, 5, 180*time.Second); got != 0 {
		t.Errorf("signal count = %d, want 0 (loss is outside the 5-trade window)", got)
	}
	if got := CountRevengeSignals(ts, 6, 180*time.Second); got != 1 {
		t.Errorf("signal count = %d, want 1 with the loss inside the window", got)
	}
}
