package account

import (
	"context"
	"errors"
)

// Current binds a store to the identity of the player on one connection.
type Current struct {
	store    Store
	identity string
}

func NewCurrent(store Store, identity string) *Current {
	return &Current{store: store, identity: identity}
}

func (c *Current) Identity() string { return c.identity }

// ReadCurrentPlayer returns the bound player, or nil with no error when no
// identity is bound or the player does not exist.
func (c *Current) ReadCurrentPlayer(ctx context.Context) (*Player, error) {
	if c == nil || c.identity == "" {
		return nil, nil
	}
	p, err := c.store.Get(ctx, c.identity)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// WritePlayer stores p under the bound identity.
func (c *Current) WritePlayer(ctx context.Context, p Player) error {
	p.Identity = c.identity
	return c.store.Put(ctx, p)
}
