// Package coach produces behavioral coaching output from session data.
// It builds the prompts, invokes the configured LLM and validates the
// model's JSON at this boundary; unvalidated external JSON never crosses
// into the statistics core or out to clients. The coach analyzes behavior
// only and never produces buy/sell signals.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tradequest-server/internal/behavior"
	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/llm"
	"tradequest-server/internal/llm/noop"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/store"
	"tradequest-server/internal/types"
)

const analyzeSystem = "You are an expert AI trading behavioral coach. Analyze trading BEHAVIOR only — patterns, discipline, emotional state, and risk management. NEVER provide buy/sell signals, price predictions, or market recommendations. Only behavioral insights."

// forbiddenAdvice strips any accidental buy/sell phrasing from generated
// messages before they reach a client.
var forbiddenAdvice = regexp.MustCompile(`(?i)\b(buy|sell|long|short|enter|exit)\s+(now|at|this|the|position)`)

var validEmotionalStates = map[string]bool{
	"Stable": true, "Cautious": true, "Elevated": true, "High Risk": true,
}
var validRiskLevels = map[string]bool{
	"Low": true, "Medium": true, "High": true,
}
var validPatternTypes = map[string]bool{
	"positive": true, "warning": true, "info": true,
}

type Service struct {
	completer interfaces.Completer
	cfg       *store.Config
}

func New(completer interfaces.Completer, cfg *store.Config) *Service {
	return &Service{completer: completer, cfg: cfg}
}

// Fallback is the well-defined analysis returned when no provider is
// configured, there is nothing to analyze, or the model output fails
// validation.
func Fallback(message string) types.CoachAnalysis {
	return types.CoachAnalysis{
		DisciplineScore:    50,
		EmotionalState:     "Stable",
		RevengeTradingRisk: "Low",
		Patterns:           []types.CoachPattern{},
		CoachMessage:       message,
		Suggestions:        []string{},
		TradeNotes:         map[string]string{},
	}
}

// tradeSummary is the compact per-trade view sent to the model.
type tradeSummary struct {
	ID              int64         `json:"id"`
	Instrument      string        `json:"instrument"`
	Type            string        `json:"type"`
	Outcome         types.Outcome `json:"outcome"`
	Pnl             float64       `json:"pnl"`
	Time            string        `json:"time"`
	SellTime        int64         `json:"sellTime"`
	PurchaseTime    int64         `json:"purchaseTime"`
	DurationSeconds *int64        `json:"durationSeconds,omitempty"`
	Shortcode       string        `json:"shortcode"`
}

// Analyze runs the behavioral analysis over the session snapshot. Failures
// downstream of a successful session fetch are absorbed into the fallback
// analysis so the dashboard always renders something.
func (s *Service) Analyze(ctx context.Context, ts []types.Trade, stats types.SessionStats, profile *types.Profile) types.CoachAnalysis {
	if len(ts) == 0 {
		return Fallback("No trades to analyze yet. Start trading and the AI Coach will analyze your patterns.")
	}

	revengeSignals := behavior.CountRevengeSignals(
		ts,
		s.cfg.Coach.RevengeWindowTrades,
		time.Duration(s.cfg.Coach.RevengeThresholdSeconds)*time.Second,
	)

	prompt := s.buildAnalyzePrompt(ts, stats, profile, revengeSignals)

	text, err := s.completer.Complete(ctx, analyzeSystem, prompt)
	if err != nil {
		if errors.Is(err, noop.ErrNotConfigured) {
			return Fallback("No AI API key configured. Add GEMINI_API_KEY or OPENAI_API_KEY to the environment.")
		}
		logger.ErrorWithErr(ctx, "Coach analysis failed", err)
		return Fallback("Connect to Deriv and trade to receive AI coaching insights.")
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		logger.Warn(ctx, "Coach analysis output failed validation", "error", err)
		return Fallback("Connect to Deriv and trade to receive AI coaching insights.")
	}
	return analysis
}

func (s *Service) buildAnalyzePrompt(ts []types.Trade, stats types.SessionStats, profile *types.Profile, revengeSignals int) string {
	max := s.cfg.Coach.MaxTradesInPrompt
	if len(ts) > max {
		ts = ts[:max]
	}
	summaries := make([]tradeSummary, 0, len(ts))
	for _, t := range ts {
		summaries = append(summaries, tradeSummary{
			ID:              t.ID,
			Instrument:      t.Instrument,
			Type:            t.ContractType,
			Outcome:         t.Outcome,
			Pnl:             t.Pnl,
			Time:            t.Time,
			SellTime:        t.SellTime,
			PurchaseTime:    t.PurchaseTime,
			DurationSeconds: t.DurationSeconds,
			Shortcode:       t.Shortcode,
		})
	}
	summaryJSON, _ := json.Marshal(summaries)
	statsJSON, _ := json.Marshal(stats)

	var b strings.Builder
	if profile != nil {
		fmt.Fprintf(&b, "\nTrader Profile:\n- Name: %s\n- Experience: %s\n- Trading Timeline: %s\n- Primary Challenge: %s\n- Preferred Products: %s\n- Risk Factor: %s\n- Recommended Focus: %s\n",
			orUnknown(profile.FullName),
			orUnknown(profile.ExperienceLevel),
			orUnknown(profile.TradingTimeline),
			orUnknown(profile.PrimaryChallenge),
			orUnknown(profile.PreferredProduct),
			orUnknown(profile.RiskFactor),
			orUnknown(profile.RecommendedFocus),
		)
	}

	fmt.Fprintf(&b, `
TRADING DATA:
- Recent %d trades: %s
- Overall stats: %s
- Revenge trading signals detected: %d

Analyze for: revenge trading (trades quickly after losses), overtrading, win/loss streak behavior, time-of-day patterns, hold-time discipline (durationSeconds), instrument consistency. Make all insights specific to this trader's actual data. Be warm and constructive.

Return ONLY valid JSON (no markdown) with this exact structure:
{
  "disciplineScore": 0-100,
  "emotionalState": "Stable" | "Cautious" | "Elevated" | "High Risk",
  "revengeTradingRisk": "Low" | "Medium" | "High",
  "patterns": [{"type": "positive" | "warning" | "info", "text": "specific behavioral pattern, no buy/sell signals"}],
  "coachMessage": "2-3 sentences specific to this trader, no buy/sell signals",
  "suggestions": ["3 actionable behavioral suggestions, no market advice"],
  "tradeNotes": {"<numeric trade id as string>": "brief behavioral note, up to 5 entries"}
}`, len(summaries), summaryJSON, statsJSON, revengeSignals)

	return b.String()
}

// parseAnalysis validates the model output field by field. Anything out of
// range rejects the whole object; a half-valid analysis is worse than the
// fallback.
func parseAnalysis(text string) (types.CoachAnalysis, error) {
	var a types.CoachAnalysis
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &a); err != nil {
		return types.CoachAnalysis{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if a.DisciplineScore < 0 || a.DisciplineScore > 100 {
		return types.CoachAnalysis{}, fmt.Errorf("disciplineScore %d out of range", a.DisciplineScore)
	}
	if !validEmotionalStates[a.EmotionalState] {
		return types.CoachAnalysis{}, fmt.Errorf("unknown emotionalState %q", a.EmotionalState)
	}
	if !validRiskLevels[a.RevengeTradingRisk] {
		return types.CoachAnalysis{}, fmt.Errorf("unknown revengeTradingRisk %q", a.RevengeTradingRisk)
	}
	for _, p := range a.Patterns {
		if !validPatternTypes[p.Type] {
			return types.CoachAnalysis{}, fmt.Errorf("unknown pattern type %q", p.Type)
		}
	}
	a.CoachMessage = stripForbidden(a.CoachMessage)
	if a.Patterns == nil {
		a.Patterns = []types.CoachPattern{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	if a.TradeNotes == nil {
		a.TradeNotes = map[string]string{}
	}
	return a, nil
}

func stripForbidden(msg string) string {
	return strings.TrimSpace(forbiddenAdvice.ReplaceAllString(msg, ""))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
