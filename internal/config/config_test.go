package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/wirsuchen")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://wirsuchen.de, https://wirsuchen.de,https://admin.wirsuchen.de")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TranslationMaxAttempts != 3 {
		t.Fatalf("unexpected max attempts: %d", cfg.TranslationMaxAttempts)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Fatalf("unexpected cache ttl: %s", cfg.CacheTTL)
	}
	if cfg.BackfillMaxItems != 10 || cfg.BulkWindow != 500 || cfg.BulkBatchSize != 10 {
		t.Fatalf("unexpected backfill/bulk defaults: %+v", cfg)
	}
	origins := cfg.CORSAllowedOriginsList()
	if len(origins) != 2 || origins[1] != "https://admin.wirsuchen.de" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestValidateRejectsUnknownDetector(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/wirsuchen")
	t.Setenv("LANGUAGE_DETECTOR", "fasttext")

	if _, err := Load(); err == nil {
		t.Fatalf("expected unknown detector to fail validation")
	}
}

func TestValidateRejectsZeroAttempts(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/wirsuchen")
	t.Setenv("TRANSLATION_MAX_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected zero attempts to fail validation")
	}
}
