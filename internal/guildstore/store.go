// Package guildstore persists per-guild bot settings (command prefix and
// watched subreddits) in PostgreSQL and provides a process-scoped cache
// with an explicit refresh contract for hot-path reads.
package guildstore

import (
	"context"
	"fmt"
	"time"
)

// DefaultPrefix is the command prefix used for guilds without stored
// settings.
const DefaultPrefix = ";"

// Settings holds the persisted configuration of one guild.
type Settings struct {
	GuildID    string
	Prefix     string
	Subreddits []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks that the settings are persistable.
func (s *Settings) Validate() error {
	if s.GuildID == "" {
		return fmt.Errorf("guildstore: guild id is required")
	}
	return nil
}

// Store is the persistence interface for guild settings.
type Store interface {
	// Get retrieves the settings of one guild. Returns (nil, nil) when
	// the guild has no stored settings.
	Get(ctx context.Context, guildID string) (*Settings, error)

	// Upsert creates or replaces the settings of one guild.
	Upsert(ctx context.Context, s *Settings) error

	// Delete removes the settings of one guild. Deleting a guild without
	// settings is not an error.
	Delete(ctx context.Context, guildID string) error

	// List returns the settings of every guild.
	List(ctx context.Context) ([]Settings, error)
}
