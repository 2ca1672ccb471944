// Package gemini calls the Google Generative Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tradequest-server/internal/httpclient"
	"tradequest-server/internal/store"
	"tradequest-server/internal/trace"
)

const baseURL = "https://generativelanguage.googleapis.com"

type GeminiCompleter struct {
	cfg    *store.Config
	client *httpclient.Client
}

func New(cfg *store.Config) *GeminiCompleter {
	return &GeminiCompleter{
		cfg:    cfg,
		client: httpclient.NewClient(httpclient.WithBaseURL(baseURL)),
	}
}

func (g *GeminiCompleter) Provider() string { return "gemini" }

func (g *GeminiCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", errors.New("GEMINI_API_KEY missing")
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     g.cfg.LLM.Temperature,
			"maxOutputTokens": g.cfg.LLM.MaxTokens,
		},
	}
	if system != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": system}},
		}
	}

	url := fmt.Sprintf("/v1beta/models/%s:generateContent?key=%s", g.cfg.LLM.GeminiModel, apiKey)
	resp, err := g.client.POSTWithRetry(ctx, url, body, nil, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var r struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	return r.Candidates[0].Content.Parts[0].Text, nil
}
