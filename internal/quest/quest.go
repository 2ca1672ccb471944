// Package quest generates personalized quiz quests through the LLM and
// validates the returned structure strictly before it reaches a client:
// exactly five pages, three answers per page, exactly one correct.
package quest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tradequest-server/internal/interfaces"
	"tradequest-server/internal/llm"
	"tradequest-server/internal/types"
)

const (
	pagesPerQuest   = 5
	answersPerPage  = 3
	generatorSystem = "You are an expert trading educator."
)

// ErrMissingTitle rejects a generation request without a quest title.
var ErrMissingTitle = errors.New("quest: title is required")

// Request asks for one generated quest.
type Request struct {
	QuestID    int            `json:"questId"`
	QuestTitle string         `json:"questTitle"`
	Profile    *types.Profile `json:"userProfile,omitempty"`
}

type Generator struct {
	completer interfaces.Completer
}

func NewGenerator(completer interfaces.Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate builds the prompt, invokes the provider and validates the
// result. Unlike the coach there is no static fallback: a quest that
// cannot be generated is an error the caller surfaces.
func (g *Generator) Generate(ctx context.Context, req Request) (*types.Quest, error) {
	if strings.TrimSpace(req.QuestTitle) == "" {
		return nil, ErrMissingTitle
	}

	text, err := g.completer.Complete(ctx, generatorSystem, buildPrompt(req))
	if err != nil {
		return nil, err
	}

	var quest types.Quest
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &quest); err != nil {
		return nil, fmt.Errorf("quest: invalid response format: %w", err)
	}
	if err := validate(&quest); err != nil {
		return nil, err
	}
	return &quest, nil
}

func buildPrompt(req Request) string {
	var profileContext string
	if p := req.Profile; p != nil {
		profileContext = fmt.Sprintf(`
User Profile:
- Preferred Trading Style: %s
- Risk Tolerance: %s
- Preferred Instruments: %s
- Experience Level: %s
- Learning Goals: %s
`,
			orNotSpecified(p.TradingTimeline),
			orNotSpecified(p.RiskFactor),
			orNotSpecified(p.PreferredProduct),
			orNotSpecified(p.ExperienceLevel),
			orNotSpecified(p.RecommendedFocus),
		)
	}

	return fmt.Sprintf(`Generate 5 interactive questions for a trading quest titled "%s".
%s
IMPORTANT REQUIREMENTS:
1. Create 5 realistic, SHORT trading scenarios (1-3 sentences max)
2. Each scenario should be a trading situation the user might encounter
3. Personalize based on the user's trading style, risk tolerance, and preferred instruments
4. Each question has exactly 3 multiple choice answers (keep options concise - 1 line each)
5. Only ONE answer should be correct
6. Explanations should be brief (2-3 sentences max) but educational
7. Focus on practical trading decisions
8. Questions should progress in difficulty

Return ONLY valid JSON (no markdown, no code blocks) with this exact structure:
{
  "pages": [
    {
      "id": "quest-%d-page-1",
      "title": "Short Title",
      "story": "1-2 sentence trading scenario",
      "answers": [
        {"id": "q1-a", "text": "Brief option", "isCorrect": true, "explanation": "why this is correct"},
        {"id": "q1-b", "text": "Brief option", "isCorrect": false, "explanation": "why this is incorrect"},
        {"id": "q1-c", "text": "Brief option", "isCorrect": false, "explanation": "why this is incorrect"}
      ]
    }
  ]
}
with one entry per page, pages 1-5.`, req.QuestTitle, profileContext, req.QuestID)
}

func validate(q *types.Quest) error {
	if len(q.Pages) != pagesPerQuest {
		return fmt.Errorf("quest: expected exactly %d pages, got %d", pagesPerQuest, len(q.Pages))
	}
	for i, page := range q.Pages {
		if len(page.Answers) != answersPerPage {
			return fmt.Errorf("quest: page %d has %d answers, want %d", i+1, len(page.Answers), answersPerPage)
		}
		correct := 0
		for _, a := range page.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("quest: page %d has %d correct answers, want exactly 1", i+1, correct)
		}
	}
	return nil
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
