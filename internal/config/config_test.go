package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.WikiTimeout != 10*time.Second {
		t.Errorf("wiki timeout = %v, want 10s", cfg.WikiTimeout)
	}
}

func TestLoadWikiTimeoutFromEnv(t *testing.T) {
	t.Setenv("WIKI_API_TIMEOUT", "3s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WikiTimeout != 3*time.Second {
		t.Errorf("wiki timeout = %v, want 3s", cfg.WikiTimeout)
	}
}
