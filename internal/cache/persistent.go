package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"wirsuchen.de/backend/internal/globaltime"
	"wirsuchen.de/backend/internal/metrics"
)

// DefaultTTL is how long a persisted entry stays readable.
const DefaultTTL = 24 * time.Hour

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS translation_cache (
	cache_key  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	stored_at  INTEGER NOT NULL
)`

// The sweep on every write filters on stored_at.
const createStoredAtIndex = `
CREATE INDEX IF NOT EXISTS translation_cache_stored_at_idx
	ON translation_cache (stored_at)`

// PersistentCache is the durable tier, a sqlite file with per-entry TTL.
// Expired entries read as absent and are deleted on the next write.
type PersistentCache struct {
	db      *sql.DB
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// OpenPersistent opens (or creates) the sqlite cache file at path.
func OpenPersistent(path string, ttl time.Duration, logger zerolog.Logger, m *metrics.Metrics) (*PersistentCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// One writer keeps sqlite from returning SQLITE_BUSY under concurrent Set calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, stmt := range append(pragmas, createEntriesTable, createStoredAtIndex) {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare cache db %q: %w", stmt, err)
		}
	}

	return &PersistentCache{
		db:      db,
		ttl:     ttl,
		logger:  logger.With().Str("component", "persistent_cache").Logger(),
		metrics: m,
	}, nil
}

func (c *PersistentCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *PersistentCache) Get(ctx context.Context, text, lang string) (string, bool) {
	var (
		value    string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT value, stored_at FROM translation_cache WHERE cache_key = ?`,
		Key(text, lang),
	).Scan(&value, &storedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn().Err(err).Msg("persistent cache read failed")
		}
		c.metrics.CacheLookup("persistent", false)
		return "", false
	}

	if c.expired(storedAt) {
		c.metrics.CacheLookup("persistent", false)
		return "", false
	}
	c.metrics.CacheLookup("persistent", true)
	return value, true
}

func (c *PersistentCache) Set(ctx context.Context, text, lang, translation string) {
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM translation_cache WHERE stored_at <= ?`,
		c.cutoff(),
	); err != nil {
		c.logger.Warn().Err(err).Msg("persistent cache sweep failed")
	}

	if _, err := c.db.ExecContext(ctx, `
INSERT INTO translation_cache (cache_key, value, stored_at)
VALUES (?, ?, ?)
ON CONFLICT (cache_key) DO UPDATE SET
	value = excluded.value,
	stored_at = excluded.stored_at`,
		Key(text, lang), translation, globaltime.UTC().UnixNano(),
	); err != nil {
		c.logger.Warn().Err(err).Msg("persistent cache write failed")
	}
}

func (c *PersistentCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM translation_cache`); err != nil {
		return fmt.Errorf("clear persistent cache: %w", err)
	}
	return nil
}

// Stats reports live (unexpired) entries only.
func (c *PersistentCache) Stats(ctx context.Context) (Stats, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT cache_key FROM translation_cache WHERE stored_at > ? ORDER BY cache_key`,
		c.cutoff(),
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query persistent cache keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0, 64)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return Stats{}, fmt.Errorf("scan persistent cache key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate persistent cache keys: %w", err)
	}
	return Stats{Size: len(keys), Keys: keys}, nil
}

func (c *PersistentCache) cutoff() int64 {
	return globaltime.UTC().Add(-c.ttl).UnixNano()
}

func (c *PersistentCache) expired(storedAt int64) bool {
	return storedAt <= c.cutoff()
}
