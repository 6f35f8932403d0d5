package guildstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Cache is a process-scoped read cache over a [Store]. It must be
// populated with [Cache.Refresh] before reads are served, and refreshed
// again after any write to the underlying store. All methods are safe
// for concurrent use.
type Cache struct {
	store Store

	mu        sync.RWMutex
	byGuild   map[string]Settings
	refreshed bool
}

// NewCache creates an empty cache over store. Call [Cache.Refresh] to
// populate it.
func NewCache(store Store) *Cache {
	return &Cache{
		store:   store,
		byGuild: make(map[string]Settings),
	}
}

// Refresh replaces the cached snapshot with the current store contents.
func (c *Cache) Refresh(ctx context.Context) error {
	slog.Info("caching guild settings from database...")
	all, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("guildstore: refresh cache: %w", err)
	}

	byGuild := make(map[string]Settings, len(all))
	for _, set := range all {
		byGuild[set.GuildID] = set
	}

	c.mu.Lock()
	c.byGuild = byGuild
	c.refreshed = true
	c.mu.Unlock()

	slog.Info("caching guild settings from database...DONE", "guilds", len(all))
	return nil
}

// Prefix returns the command prefix of a guild, falling back to
// [DefaultPrefix] for guilds without stored settings.
func (c *Cache) Prefix(guildID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if set, ok := c.byGuild[guildID]; ok && set.Prefix != "" {
		return set.Prefix
	}
	return DefaultPrefix
}

// Subreddits returns the watched subreddits of a guild, or nil when the
// guild has none stored.
func (c *Cache) Subreddits(guildID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.byGuild[guildID]
	if !ok {
		return nil
	}
	out := make([]string, len(set.Subreddits))
	copy(out, set.Subreddits)
	return out
}

// Refreshed reports whether the cache has been populated at least once.
func (c *Cache) Refreshed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}
