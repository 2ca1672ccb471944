package coach

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"tradequest-server/internal/llm/noop"
)

const messageSystem = "You are a friendly, supportive AI trading behavioral coach embedded in a live trading platform."

// MessageEvent describes one completed trade, sent by the client right
// after it settles.
type MessageEvent struct {
	EventType           string  `json:"event_type"` // win or loss
	Amount              float64 `json:"amount"`
	Balance             float64 `json:"balance"`
	Currency            string  `json:"currency"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
	Streak              int     `json:"streak"`
	SessionStartBalance float64 `json:"session_start_balance"`
	IsRevengeTrading    bool    `json:"is_revenge_trading"`
	LossPercent         float64 `json:"loss_percent"`
	TotalSessionTrades  int     `json:"total_session_trades"`
}

// Message generates one short coaching message for a completed trade.
// Without a configured provider it returns an empty message and no error;
// the client simply shows nothing.
func (s *Service) Message(ctx context.Context, ev MessageEvent) (string, error) {
	text, err := s.completer.Complete(ctx, messageSystem, buildMessagePrompt(ev))
	if err != nil {
		if errors.Is(err, noop.ErrNotConfigured) {
			return "", nil
		}
		return "", err
	}
	return stripForbidden(text), nil
}

func buildMessagePrompt(ev MessageEvent) string {
	currency := ev.Currency
	if currency == "" {
		currency = "USD"
	}

	sessionPnl := "unknown"
	if ev.Balance != 0 && ev.SessionStartBalance != 0 {
		sessionPnl = fmt.Sprintf("%.2f %s", ev.Balance-ev.SessionStartBalance, currency)
	}

	totalTrades := ev.TotalSessionTrades
	if totalTrades == 0 {
		totalTrades = ev.Wins + ev.Losses
	}

	outcome := "LOSING"
	if ev.EventType == "win" {
		outcome = "PROFITABLE"
	}

	var notes strings.Builder
	if ev.IsRevengeTrading {
		notes.WriteString("- ALERT: Trade placed shortly after a loss - possible revenge trading pattern! Focus on this gently but clearly.\n")
	}
	if ev.LossPercent >= 10 {
		notes.WriteString("- This is a significant loss - suggest taking a break.\n")
	}
	if ev.Streak >= 3 {
		notes.WriteString("- Acknowledge the winning streak but remind about discipline.\n")
	}
	if ev.Streak <= -3 {
		notes.WriteString("- The trader is on a losing streak - be empathetic and suggest a pause.\n")
	}

	return fmt.Sprintf(`A trader just completed a trade. Generate a brief coaching message (1-2 sentences, max 40 words).

ABSOLUTE RULES:
- NEVER provide buy/sell signals, price predictions, or trading recommendations
- NEVER suggest specific instruments to trade
- ONLY address behavior, discipline, emotional management, and risk
- Be warm, encouraging on wins, supportive on losses
- Vary your language - never repeat the same phrases
- Use natural, conversational tone

TRADE CONTEXT:
- Event: %s (%s trade)
- Amount: %.2f %s
- Current balance: %.2f %s
- Session starting balance: %.2f %s
- Session P&L: %s
- Session stats: %d wins, %d losses (%d total trades)
- Current streak: %d (positive=winning, negative=losing)
%s
Return ONLY the coaching message text. No JSON, no formatting, just the message.`,
		ev.EventType, outcome,
		math.Abs(ev.Amount), currency,
		ev.Balance, currency,
		ev.SessionStartBalance, currency,
		sessionPnl,
		ev.Wins, ev.Losses, totalTrades,
		ev.Streak,
		notes.String(),
	)
}
