package interfaces

import (
	"context"

	"tradequest-server/internal/deriv"
)

// TradeSource supplies the raw upstream snapshot one session run derives
// from. Implementations must be all-or-nothing: on any failure they return
// an error and no partial history.
type TradeSource interface {
	FetchHistory(ctx context.Context, token string, limit int) (*deriv.History, error)
}
