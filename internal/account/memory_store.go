package account

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps players in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]Player
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]Player)}
}

func (s *MemoryStore) Get(ctx context.Context, identity string) (Player, error) {
	if err := ctx.Err(); err != nil {
		return Player{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[identity]
	if !ok {
		return Player{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, p Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.Identity] = p.normalize()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
