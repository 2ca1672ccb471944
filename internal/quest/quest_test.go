package quest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tradequest-server/internal/llm/noop"
	"tradequest-server/internal/types"
)

type stubCompleter struct {
	text   string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func (s *stubCompleter) Provider() string { return "stub" }

// questJSON builds a well-formed quest with the given number of pages. Each
// page gets one correct answer unless correctPerPage says otherwise.
func questJSON(pages, correctPerPage int) string {
	q := types.Quest{}
	for p := 1; p <= pages; p++ {
		page := types.QuestPage{
			ID:    fmt.Sprintf("quest-1-page-%d", p),
			Title: "Scenario",
			Story: "A short trading scenario.",
		}
		for a := 0; a < 3; a++ {
			page.Answers = append(page.Answers, types.QuestAnswer{
				ID:          fmt.Sprintf("q%d-%c", p, 'a'+a),
				Text:        "Option",
				IsCorrect:   a < correctPerPage,
				Explanation: "Because.",
			})
		}
		q.Pages = append(q.Pages, page)
	}
	b, _ := json.Marshal(q)
	return string(b)
}

func TestGenerateValidQuest(t *testing.T) {
	stub := &stubCompleter{text: questJSON(5, 1)}
	gen := NewGenerator(stub)

	quest, err := gen.Generate(context.Background(), Request{QuestID: 1, QuestTitle: "Risk Basics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quest.Pages) != 5 {
		t.Errorf("pages = %d, want 5", len(quest.Pages))
	}
	if !strings.Contains(stub.prompt, `"Risk Basics"`) {
		t.Errorf("prompt missing quest title:\n%s", stub.prompt)
	}
}

func TestGenerateAcceptsFencedJSON(t *testing.T) {
	gen := NewGenerator(&stubCompleter{text: "```json\n" + questJSON(5, 1) + "\n```"})
	if _, err := gen.Generate(context.Background(), Request{QuestID: 1, QuestTitle: "T"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGeneratePersonalizesFromProfile(t *testing.T) {
	stub := &stubCompleter{text: questJSON(5, 1)}
	gen := NewGenerator(stub)

	profile := &types.Profile{RiskFactor: "Conservative", PreferredProduct: "Volatility indices"}
	if _, err := gen.Generate(context.Background(), Request{QuestID: 2, QuestTitle: "T", Profile: profile}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stub.prompt, "Conservative") || !strings.Contains(stub.prompt, "Volatility indices") {
		t.Errorf("prompt missing profile context:\n%s", stub.prompt)
	}
}

func TestGenerateRejectsMalformedQuests(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"not json", "here are some questions for you"},
		{"wrong page count", questJSON(4, 1)},
		{"no correct answer", questJSON(5, 0)},
		{"two correct answers", questJSON(5, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := NewGenerator(&stubCompleter{text: tc.text})
			if _, err := gen.Generate(context.Background(), Request{QuestID: 1, QuestTitle: "T"}); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestGenerateRequiresTitle(t *testing.T) {
	gen := NewGenerator(&stubCompleter{text: questJSON(5, 1)})
	if _, err := gen.Generate(context.Background(), Request{QuestID: 1}); !errors.Is(err, ErrMissingTitle) {
		t.Errorf("expected ErrMissingTitle, got %v", err)
	}
}

func TestGenerateNoProviderIsError(t *testing.T) {
	gen := NewGenerator(noop.New())
	if _, err := gen.Generate(context.Background(), Request{QuestID: 1, QuestTitle: "T"}); !errors.Is(err, noop.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
