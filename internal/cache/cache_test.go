package cache

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wirsuchen.de/backend/internal/globaltime"
)

func TestKey(t *testing.T) {
	t.Parallel()

	if Key("Hello", "de") == Key("Hello", "fr") {
		t.Fatalf("expected language to change the key")
	}
	if Key("Hello", "DE ") != Key("Hello", "de") {
		t.Fatalf("expected language to be normalized")
	}
	if Key("Hello", "de") == Key("Hellp", "de") {
		t.Fatalf("expected text to change the key")
	}

	prefix := strings.Repeat("a", KeyPrefixRunes)
	if Key(prefix+"x", "de") == Key(prefix+"xy", "de") {
		t.Fatalf("expected length to separate texts sharing the hashed prefix")
	}
	if !strings.HasSuffix(Key("Hello", "it"), ":it") {
		t.Fatalf("unexpected key format: %q", Key("Hello", "it"))
	}
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemory(nil)
	if _, ok := c.Get(ctx, "Developer", "de"); ok {
		t.Fatalf("expected empty cache miss")
	}

	c.Set(ctx, "Developer", "de", "Entwickler")
	got, ok := c.Get(ctx, "Developer", "de")
	if !ok || got != "Entwickler" {
		t.Fatalf("unexpected cache value: %q %v", got, ok)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Size != 1 || stats.Keys[0] != Key("Developer", "de") {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := c.Get(ctx, "Developer", "de"); ok {
		t.Fatalf("expected miss after clear")
	}
}

func TestPersistentCache_TTL(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(base)
	t.Cleanup(globaltime.ResetTime)

	ctx := context.Background()
	c, err := OpenPersistent(filepath.Join(t.TempDir(), "cache", "translations.db"), 24*time.Hour, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open persistent cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	c.Set(ctx, "Developer", "fr", "Développeur")
	got, ok := c.Get(ctx, "Developer", "fr")
	if !ok || got != "Développeur" {
		t.Fatalf("unexpected cache value: %q %v", got, ok)
	}

	globaltime.SetMockTime(base.Add(23 * time.Hour))
	if _, ok := c.Get(ctx, "Developer", "fr"); !ok {
		t.Fatalf("expected entry to survive inside the TTL window")
	}

	globaltime.SetMockTime(base.Add(24 * time.Hour))
	if _, ok := c.Get(ctx, "Developer", "fr"); ok {
		t.Fatalf("expected entry to expire after the TTL window")
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Size != 0 {
		t.Fatalf("expected expired entry to be excluded from stats, got %+v", stats)
	}

	c.Set(ctx, "Engineer", "fr", "Ingénieur")
	var rows int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translation_cache`).Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected the write to sweep the expired row, got %d rows", rows)
	}
}

func TestTieredCache_PromotesPersistedHits(t *testing.T) {
	ctx := context.Background()
	persistent, err := OpenPersistent(filepath.Join(t.TempDir(), "tiered.db"), time.Hour, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open persistent cache: %v", err)
	}
	t.Cleanup(func() { _ = persistent.Close() })

	persistent.Set(ctx, "Sale", "it", "Saldi")
	memory := NewMemory(nil)
	tiered := NewTiered(memory, persistent)

	got, ok := tiered.Get(ctx, "Sale", "it")
	if !ok || got != "Saldi" {
		t.Fatalf("unexpected tiered value: %q %v", got, ok)
	}
	if _, ok := memory.Get(ctx, "Sale", "it"); !ok {
		t.Fatalf("expected persisted hit to be promoted to memory")
	}

	tiered.Set(ctx, "Deal", "it", "Offerta")
	stats, err := tiered.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Size != 2 {
		t.Fatalf("expected merged stats of 2 keys, got %+v", stats)
	}

	if err := tiered.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := tiered.Get(ctx, "Deal", "it"); ok {
		t.Fatalf("expected miss after clearing both tiers")
	}
}

func TestPersistentCacheIndexesStoredAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, err := OpenPersistent(filepath.Join(t.TempDir(), "translations.db"), time.Hour, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open persistent cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	var sqlText string
	err = c.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = 'translation_cache_stored_at_idx'`,
	).Scan(&sqlText)
	if err != nil {
		t.Fatalf("stored_at index missing: %v", err)
	}
	if !strings.Contains(sqlText, "stored_at") {
		t.Fatalf("index definition = %q, want it on stored_at", sqlText)
	}
}
