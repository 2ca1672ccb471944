// Package onboarding turns free-form questionnaire responses into a
// structured trader profile via the LLM and persists it. Without a
// configured provider it returns a mock profile so the flow stays usable
// in demos.
package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/kv"
	"tradequest-server/internal/llm"
	"tradequest-server/internal/llm/noop"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/types"
)

const extractSystem = "Act as a Data Extraction Specialist and Trading Coach."

// ErrNoResponses rejects a processing request with an empty questionnaire.
var ErrNoResponses = errors.New("onboarding: no responses provided")

type Processor struct {
	completer interfaces.Completer
	store     kv.Store
}

func NewProcessor(completer interfaces.Completer, store kv.Store) *Processor {
	return &Processor{completer: completer, store: store}
}

// mockProfile stands in when no LLM provider is configured.
func mockProfile() types.Profile {
	return types.Profile{
		PreferredProduct:    "Forex, Crypto",
		TradingTimeline:     "Day Trading",
		ExperienceLevel:     "Intermediate",
		PrimaryObjective:    "Generate Monthly Income",
		PrimaryChallenge:    "Execution Discipline",
		CoachProfileSummary: "User shows understanding of risk but struggles with emotional execution.",
		RiskFactor:          "Emotional decision making",
		RecommendedFocus:    "Psychology and automated execution rules",
	}
}

// Process extracts a profile from the raw questionnaire responses and
// saves it. Responses are an arbitrary JSON object keyed by question id.
func (p *Processor) Process(ctx context.Context, responses map[string]any) (types.Profile, error) {
	if len(responses) == 0 {
		return types.Profile{}, ErrNoResponses
	}

	text, err := p.completer.Complete(ctx, extractSystem, buildExtractPrompt(responses))
	if err != nil {
		if errors.Is(err, noop.ErrNotConfigured) {
			logger.Warn(ctx, "No LLM provider configured, returning mock onboarding profile")
			return p.save(ctx, mockProfile())
		}
		return types.Profile{}, err
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &profile); err != nil {
		return types.Profile{}, fmt.Errorf("onboarding: failed to parse extraction response: %w", err)
	}
	return p.save(ctx, profile)
}

func (p *Processor) save(ctx context.Context, profile types.Profile) (types.Profile, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return types.Profile{}, err
	}
	if err := p.store.Set(ctx, kv.KeyProfile, string(raw)); err != nil {
		return types.Profile{}, fmt.Errorf("onboarding: failed to save profile: %w", err)
	}
	return profile, nil
}

// LoadProfile reads the stored profile, nil when onboarding has not run.
func LoadProfile(ctx context.Context, store kv.Store) (*types.Profile, error) {
	raw, err := store.Get(ctx, kv.KeyProfile)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var profile types.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("onboarding: corrupt stored profile: %w", err)
	}
	return &profile, nil
}

func buildExtractPrompt(responses map[string]any) string {
	raw, _ := json.MarshalIndent(responses, "", "  ")

	return fmt.Sprintf(`Input Data (User Responses):
%s

Your goal is to extract structured data suitable for database insertion and provide a psychological analysis.

1. **preferred_product**: Extract the main financial instruments (e.g., "Forex", "Crypto", "Stocks"). If multiple, comma separate.
2. **trading_timeline**: Extract the timeframe (e.g., "Scalping", "Day Trading", "Swing Trading", "Investing").
3. **experience_level**: Analyze the technical answers (especially the math/risk questions) to determine if they are "Beginner", "Intermediate", or "Advanced".
   - Beginner: Fails math, vague logic, emotional.
   - Intermediate: Understands basic risk, some rules.
   - Advanced: Precise math, expectancy awareness, deep psychological insight.
4. **primary_objective**: Summarize their goal (e.g., "Income", "Wealth", "Thrill").
5. **primary_challenge**: Summarize their main hurdle.
6. **coach_profile_summary**: A 2-sentence psychological profile of the trader.
7. **risk_factor**: The biggest risk detected in their answers.
8. **recommended_focus**: One short phrase for what they should study next.

Return ONLY valid JSON with no markdown formatting:
{
  "preferred_product": "string",
  "trading_timeline": "string",
  "experience_level": "string",
  "primary_objective": "string",
  "primary_challenge": "string",
  "coach_profile_summary": "string",
  "risk_factor": "string",
  "recommended_focus": "string"
}`, raw)
}
