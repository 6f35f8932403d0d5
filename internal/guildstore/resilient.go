package guildstore

import (
	"context"

	"github.com/tavernbot/tavern/internal/resilience"
)

// ResilientStore wraps a [Store] with a circuit breaker so that a
// failing database rejects fast instead of stalling every interaction.
// While the breaker is open, all calls return
// [resilience.ErrCircuitOpen]; callers fall back to cached settings.
type ResilientStore struct {
	inner   Store
	breaker *resilience.CircuitBreaker
}

var _ Store = (*ResilientStore)(nil)

// NewResilientStore wraps inner with a circuit breaker. Zero-value
// config fields fall back to the breaker defaults.
func NewResilientStore(inner Store, cfg resilience.CircuitBreakerConfig) *ResilientStore {
	if cfg.Name == "" {
		cfg.Name = "guildstore"
	}
	return &ResilientStore{
		inner:   inner,
		breaker: resilience.NewCircuitBreaker(cfg),
	}
}

// Get retrieves one guild's settings through the breaker.
func (r *ResilientStore) Get(ctx context.Context, guildID string) (*Settings, error) {
	var out *Settings
	err := r.breaker.Execute(func() error {
		var err error
		out, err = r.inner.Get(ctx, guildID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert writes one guild's settings through the breaker.
func (r *ResilientStore) Upsert(ctx context.Context, set *Settings) error {
	return r.breaker.Execute(func() error {
		return r.inner.Upsert(ctx, set)
	})
}

// Delete removes one guild's settings through the breaker.
func (r *ResilientStore) Delete(ctx context.Context, guildID string) error {
	return r.breaker.Execute(func() error {
		return r.inner.Delete(ctx, guildID)
	})
}

// List returns all stored settings through the breaker.
func (r *ResilientStore) List(ctx context.Context) ([]Settings, error) {
	var out []Settings
	err := r.breaker.Execute(func() error {
		var err error
		out, err = r.inner.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// State exposes the breaker state for health reporting.
func (r *ResilientStore) State() resilience.State {
	return r.breaker.State()
}
