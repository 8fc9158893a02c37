package cache

import (
	"context"
	"errors"
	"sort"
)

// TieredCache reads the memory tier first and promotes persisted hits into it.
// Writes go to every tier.
type TieredCache struct {
	memory     Cache
	persistent Cache
}

// NewTiered composes the two tiers. persistent may be nil.
func NewTiered(memory, persistent Cache) *TieredCache {
	return &TieredCache{memory: memory, persistent: persistent}
}

func (c *TieredCache) Get(ctx context.Context, text, lang string) (string, bool) {
	if value, ok := c.memory.Get(ctx, text, lang); ok {
		return value, true
	}
	if c.persistent == nil {
		return "", false
	}
	value, ok := c.persistent.Get(ctx, text, lang)
	if ok {
		c.memory.Set(ctx, text, lang, value)
	}
	return value, ok
}

func (c *TieredCache) Set(ctx context.Context, text, lang, translation string) {
	c.memory.Set(ctx, text, lang, translation)
	if c.persistent != nil {
		c.persistent.Set(ctx, text, lang, translation)
	}
}

func (c *TieredCache) Clear(ctx context.Context) error {
	err := c.memory.Clear(ctx)
	if c.persistent != nil {
		err = errors.Join(err, c.persistent.Clear(ctx))
	}
	return err
}

// Stats merges keys across tiers.
func (c *TieredCache) Stats(ctx context.Context) (Stats, error) {
	mem, err := c.memory.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if c.persistent == nil {
		return mem, nil
	}
	persisted, err := c.persistent.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}

	seen := make(map[string]struct{}, len(mem.Keys)+len(persisted.Keys))
	keys := make([]string, 0, len(mem.Keys)+len(persisted.Keys))
	for _, key := range append(mem.Keys, persisted.Keys...) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return Stats{Size: len(keys), Keys: keys}, nil
}
