package types

// Outcome classifies a closed trade. A zero-P&L trade counts as a Win; this
// matches the statistics the dashboard has always shown and must not change
// without coordinating with consumers.
type Outcome string

const (
	Win  Outcome = "Win"
	Loss Outcome = "Loss"
)

// Trade is the canonical unit of analysis, derived from one Deriv profit-table
// transaction. Immutable after normalization.
type Trade struct {
	// ID is the broker transaction id, or the 1-based position in the batch
	// when the broker omits one. Synthetic ids are stable only within a
	// single fetch.
	ID           int64   `json:"id"`
	Instrument   string  `json:"instrument"`
	ContractType string  `json:"contractType"`
	Outcome      Outcome `json:"outcome"`
	Pnl          float64 `json:"pnl"`
	BuyPrice     float64 `json:"buyPrice"`
	SellPrice    float64 `json:"sellPrice"`
	// Time is a human-readable label ("5m ago") derived from SellTime.
	Time         string `json:"time"`
	SellTime     int64  `json:"sellTime"`
	PurchaseTime int64  `json:"purchaseTime"`
	Longcode     string `json:"longcode"`
	Shortcode    string `json:"shortcode"`
	// DurationSeconds is sellTime-purchaseTime clamped to >= 0, nil when
	// either timestamp is missing.
	DurationSeconds *int64 `json:"durationSeconds,omitempty"`
	ContractID      string `json:"contractId,omitempty"`
}

// SessionStats are recomputed from scratch on every pipeline run, never
// incrementally updated.
type SessionStats struct {
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	TotalPnl float64 `json:"totalPnl"`
	WinRate  float64 `json:"winRate"`
	// Streak is the signed run length of same-outcome trades ending at the
	// most recent trade: positive for wins, negative for losses.
	Streak      int `json:"streak"`
	TotalTrades int `json:"totalTrades"`
}

// PnlPoint is one step of the cumulative P&L series, chronological order.
type PnlPoint struct {
	Time string  `json:"time"`
	Pnl  float64 `json:"pnl"`
}

// SessionReport is the exact shape the dashboard and AI consumers read.
// Trades are newest-first, PnlOverTime is chronological.
type SessionReport struct {
	Trades      []Trade      `json:"trades"`
	Stats       SessionStats `json:"stats"`
	PnlOverTime []PnlPoint   `json:"pnlOverTime"`
	Balance     *float64     `json:"balance,omitempty"`
	Currency    string       `json:"currency"`
}

// Profile is the stored trader profile extracted during onboarding and fed
// back into coach and quest prompts.
type Profile struct {
	DBID                string `json:"dbId,omitempty"`
	FullName            string `json:"full_name"`
	PreferredProduct    string `json:"preferred_product"`
	TradingTimeline     string `json:"trading_timeline"`
	ExperienceLevel     string `json:"experience_level"`
	PrimaryObjective    string `json:"primary_objective"`
	PrimaryChallenge    string `json:"primary_challenge"`
	CoachProfileSummary string `json:"coach_profile_summary"`
	RiskFactor          string `json:"risk_factor"`
	RecommendedFocus    string `json:"recommended_focus"`
}

// CoachPattern is one behavioral observation in a coach analysis.
type CoachPattern struct {
	Type string `json:"type"` // positive, warning or info
	Text string `json:"text"`
}

// CoachAnalysis is the validated result of the LLM behavioral analysis.
// Qualitative labels (risk level, emotional state) are assigned here, never
// by the statistics core.
type CoachAnalysis struct {
	DisciplineScore    int               `json:"disciplineScore"`
	EmotionalState     string            `json:"emotionalState"`
	RevengeTradingRisk string            `json:"revengeTradingRisk"`
	Patterns           []CoachPattern    `json:"patterns"`
	CoachMessage       string            `json:"coachMessage"`
	Suggestions        []string          `json:"suggestions"`
	TradeNotes         map[string]string `json:"tradeNotes"`
}

// QuestAnswer is one multiple-choice option of a quest page.
type QuestAnswer struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// QuestPage is one scenario of a generated quest quiz.
type QuestPage struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Story   string        `json:"story"`
	Answers []QuestAnswer `json:"answers"`
}

// Quest is a full generated quiz: exactly five pages of three answers each.
type Quest struct {
	Pages []QuestPage `json:"pages"`
}
