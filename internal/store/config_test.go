package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Deriv.HistoryLimit != 100 {
		t.Errorf("expected history limit 100, got %d", cfg.Deriv.HistoryLimit)
	}
	if cfg.Coach.RevengeThresholdSeconds != 180 {
		t.Errorf("expected revenge threshold 180, got %d", cfg.Coach.RevengeThresholdSeconds)
	}
	if cfg.Storage.Backend != "FILE" {
		t.Errorf("expected FILE storage backend, got %s", cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  addr: \":9090\"\nderiv:\n  app_id: 12345\nstorage:\n  backend: MEMORY\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %s, want :9090", cfg.Server.Addr)
	}
	if cfg.Deriv.AppID != 12345 {
		t.Errorf("app_id = %d, want 12345", cfg.Deriv.AppID)
	}
	// Defaults still fill the gaps.
	if cfg.Coach.MaxTradesInPrompt != 35 {
		t.Errorf("max trades in prompt = %d, want 35", cfg.Coach.MaxTradesInPrompt)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "SQLITE"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown storage backend")
	}
}

func TestValidateRedisNeedsAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "REDIS"
	cfg.Storage.RedisAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for REDIS backend without address")
	}
}
