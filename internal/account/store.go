package account

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no player exists for an identity.
var ErrNotFound = errors.New("player not found")

// Store persists player records keyed by identity.
type Store interface {
	// Get returns the player with the given identity or ErrNotFound.
	Get(ctx context.Context, identity string) (Player, error)
	// Put inserts or replaces the player with p.Identity.
	Put(ctx context.Context, p Player) error
	// List returns every stored player ordered by identity.
	List(ctx context.Context) ([]Player, error)
	Close() error
}
