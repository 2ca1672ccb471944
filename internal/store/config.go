// Package store loads and validates the server configuration.
package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Deriv struct {
		Endpoint     string `yaml:"endpoint"`
		AppID        int    `yaml:"app_id"`
		HistoryLimit int    `yaml:"history_limit"`
	} `yaml:"deriv"`
	LLM struct {
		// Provider forces a provider (GEMINI, OPENAI, NONE). Empty means
		// auto: first provider with an API key in the environment wins.
		Provider    string  `yaml:"provider"`
		GeminiModel string  `yaml:"gemini_model"`
		OpenAIModel string  `yaml:"openai_model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	Coach struct {
		RevengeWindowTrades     int `yaml:"revenge_window_trades"`
		RevengeThresholdSeconds int `yaml:"revenge_threshold_seconds"`
		MaxTradesInPrompt       int `yaml:"max_trades_in_prompt"`
	} `yaml:"coach"`
	Storage struct {
		// Backend selects where profiles and tokens live: FILE, REDIS or
		// MEMORY. Business logic only ever sees the kv.Store interface.
		Backend   string `yaml:"backend"`
		Path      string `yaml:"path"`
		RedisAddr string `yaml:"redis_addr"`
	} `yaml:"storage"`
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "FILE", "REDIS", "MEMORY":
	default:
		return fmt.Errorf("invalid storage.backend '%s': must be 'FILE', 'REDIS' or 'MEMORY'", c.Storage.Backend)
	}
	if c.Storage.Backend == "REDIS" && c.Storage.RedisAddr == "" {
		return fmt.Errorf("storage.redis_addr required when storage.backend is REDIS")
	}
	switch c.LLM.Provider {
	case "", "GEMINI", "OPENAI", "NONE":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'GEMINI', 'OPENAI' or 'NONE'", c.LLM.Provider)
	}
	if c.Deriv.HistoryLimit < 0 || c.Deriv.HistoryLimit > 500 {
		return fmt.Errorf("deriv.history_limit must be between 0-500, got %d", c.Deriv.HistoryLimit)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Deriv.HistoryLimit == 0 {
		c.Deriv.HistoryLimit = 100
	}
	if c.LLM.GeminiModel == "" {
		c.LLM.GeminiModel = "gemini-2.5-flash"
	}
	if c.LLM.OpenAIModel == "" {
		c.LLM.OpenAIModel = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.Coach.RevengeWindowTrades == 0 {
		c.Coach.RevengeWindowTrades = 20
	}
	if c.Coach.RevengeThresholdSeconds == 0 {
		c.Coach.RevengeThresholdSeconds = 180
	}
	if c.Coach.MaxTradesInPrompt == 0 {
		c.Coach.MaxTradesInPrompt = 35
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "FILE"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/store.json"
	}
}
