package guildstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the guild_settings table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS guild_settings (
    guild_id   TEXT PRIMARY KEY,
    prefix     TEXT NOT NULL DEFAULT ';',
    subreddits JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database. The
// subreddit list is serialised as JSONB.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given
// database connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// guild_settings table if it does not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("guildstore: migrate: %w", err)
	}
	return nil
}

// Get retrieves the settings of one guild. Returns (nil, nil) when the
// guild has no stored settings.
func (s *PostgresStore) Get(ctx context.Context, guildID string) (*Settings, error) {
	const query = `
		SELECT guild_id, prefix, subreddits, created_at, updated_at
		FROM guild_settings
		WHERE guild_id = $1`

	var (
		set            Settings
		subredditsJSON []byte
	)
	err := s.db.QueryRow(ctx, query, guildID).Scan(
		&set.GuildID, &set.Prefix, &subredditsJSON, &set.CreatedAt, &set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("guildstore: get %q: %w", guildID, err)
	}

	if err := json.Unmarshal(subredditsJSON, &set.Subreddits); err != nil {
		return nil, fmt.Errorf("guildstore: unmarshal subreddits: %w", err)
	}
	return &set, nil
}

// Upsert creates or replaces the settings of one guild.
func (s *PostgresStore) Upsert(ctx context.Context, set *Settings) error {
	if err := set.Validate(); err != nil {
		return err
	}

	subredditsJSON, err := json.Marshal(emptySlice(set.Subreddits))
	if err != nil {
		return fmt.Errorf("guildstore: marshal subreddits: %w", err)
	}

	const query = `
		INSERT INTO guild_settings (guild_id, prefix, subreddits)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id) DO UPDATE SET
			prefix = EXCLUDED.prefix,
			subreddits = EXCLUDED.subreddits,
			updated_at = now()
		RETURNING created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		set.GuildID, defaultPrefix(set.Prefix), subredditsJSON,
	).Scan(&set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("guildstore: upsert: %w", err)
	}
	return nil
}

// Delete removes the settings of one guild. Deleting a guild without
// settings is not an error.
func (s *PostgresStore) Delete(ctx context.Context, guildID string) error {
	const query = `DELETE FROM guild_settings WHERE guild_id = $1`
	if _, err := s.db.Exec(ctx, query, guildID); err != nil {
		return fmt.Errorf("guildstore: delete %q: %w", guildID, err)
	}
	return nil
}

// List returns the settings of every guild ordered by guild ID.
func (s *PostgresStore) List(ctx context.Context) ([]Settings, error) {
	const query = `
		SELECT guild_id, prefix, subreddits, created_at, updated_at
		FROM guild_settings
		ORDER BY guild_id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("guildstore: list: %w", err)
	}
	defer rows.Close()

	var all []Settings
	for rows.Next() {
		var (
			set            Settings
			subredditsJSON []byte
		)
		if err := rows.Scan(
			&set.GuildID, &set.Prefix, &subredditsJSON, &set.CreatedAt, &set.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("guildstore: list scan: %w", err)
		}
		if err := json.Unmarshal(subredditsJSON, &set.Subreddits); err != nil {
			return nil, fmt.Errorf("guildstore: unmarshal subreddits: %w", err)
		}
		all = append(all, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("guildstore: list: %w", err)
	}
	return all, nil
}

// defaultPrefix returns the prefix value, falling back to [DefaultPrefix]
// when empty.
func defaultPrefix(p string) string {
	if p == "" {
		return DefaultPrefix
	}
	return p
}

// emptySlice returns s if non-nil, otherwise an empty non-nil slice. This
// ensures JSON marshalling produces "[]" instead of "null".
func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
