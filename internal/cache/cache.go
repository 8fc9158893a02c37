package cache

import (
	"context"
	"strconv"
	"strings"
)

// KeyPrefixRunes bounds how much of the source text feeds the cache key.
const KeyPrefixRunes = 500

// Stats describes the current contents of a cache.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Cache stores translated strings keyed by source text and target language.
type Cache interface {
	Get(ctx context.Context, text, lang string) (string, bool)
	Set(ctx context.Context, text, lang, translation string)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Key hashes the first KeyPrefixRunes runes of text with a polynomial
// rolling hash and appends the full rune count and target language.
// Collisions between long texts sharing a prefix and length are tolerated.
func Key(text, lang string) string {
	var (
		h     uint64
		count int
	)
	for _, r := range text {
		if count < KeyPrefixRunes {
			h = h*31 + uint64(r)
		}
		count++
	}

	var b strings.Builder
	b.Grow(32)
	b.WriteString(strconv.FormatUint(h, 36))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(count))
	b.WriteByte(':')
	b.WriteString(strings.ToLower(strings.TrimSpace(lang)))
	return b.String()
}
