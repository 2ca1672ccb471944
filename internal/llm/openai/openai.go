// Package openai calls the OpenAI chat-completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tradequest-server/internal/httpclient"
	"tradequest-server/internal/store"
	"tradequest-server/internal/trace"
)

const baseURL = "https://api.openai.com"

type OpenAICompleter struct {
	cfg    *store.Config
	client *httpclient.Client
}

func New(cfg *store.Config) *OpenAICompleter {
	return &OpenAICompleter{
		cfg:    cfg,
		client: httpclient.NewClient(httpclient.WithBaseURL(baseURL)),
	}
}

func (o *OpenAICompleter) Provider() string { return "openai" }

func (o *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	messages := make([]map[string]string, 0, 2)
	if system != "" {
		messages = append(messages, map[string]string{"role": "system", "content": system})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	body := map[string]any{
		"model":       o.cfg.LLM.OpenAIModel,
		"messages":    messages,
		"temperature": o.cfg.LLM.Temperature,
		"max_tokens":  o.cfg.LLM.MaxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	resp, err := o.client.POSTWithRetry(ctx, "/v1/chat/completions", body, headers, nil)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(r.Choices) == 0 {
		return "", errors.New("openai: no choices")
	}
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
