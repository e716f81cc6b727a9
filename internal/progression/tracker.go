// Package progression advances a player's unlocked mission level after a clear.
package progression

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/mission"
)

var (
	// ErrPersistence wraps a failed write. The returned level is still valid
	// and is kept in memory until a later write succeeds.
	ErrPersistence = errors.New("progress not saved")
	// ErrNoPlayer is returned when no player is bound to the tracker.
	ErrNoPlayer = errors.New("no current player")
)

// PlayerStore reads and writes the player a tracker advances.
type PlayerStore interface {
	ReadCurrentPlayer(ctx context.Context) (*account.Player, error)
	WritePlayer(ctx context.Context, p account.Player) error
}

// Tracker serializes level advancement for one player.
type Tracker struct {
	mu     sync.Mutex
	store  PlayerStore
	level  int // unsaved level after a failed write, 0 when the store is current
	logger *log.Logger
	now    func() time.Time
}

func NewTracker(store PlayerStore, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{store: store, logger: logger, now: time.Now}
}

// Advance records a clear of currentLevel and returns the player's new level:
// the larger of min(currentLevel+1, MaxLevel), the stored level and the level
// already held in memory. It never lowers the level.
func (t *Tracker) Advance(ctx context.Context, currentLevel int) (int, error) {
	if !mission.ValidLevel(currentLevel) {
		return 0, fmt.Errorf("advance from level %d: %w", currentLevel, mission.ErrOutOfRange)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.store.ReadCurrentPlayer(ctx)
	if err != nil {
		return 0, fmt.Errorf("read player: %w", err)
	}
	if p == nil {
		return 0, ErrNoPlayer
	}

	next := max(min(currentLevel+1, mission.MaxLevel), p.Level, t.level)
	if next == p.Level {
		t.level = 0
		return next, nil
	}
	p.Level = next
	p.UpdatedAt = t.now()
	if err := t.store.WritePlayer(ctx, *p); err != nil {
		t.level = next
		t.logger.Warn("progress write failed", "identity", p.Identity, "level", next, "err", err)
		return next, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	// The store is authoritative again, so an operator may lower the level.
	t.level = 0
	t.logger.Debug("level advanced", "identity", p.Identity, "level", next)
	return next, nil
}

// Level returns the highest unlocked mission level, at least MinLevel.
func (t *Tracker) Level(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.store.ReadCurrentPlayer(ctx)
	if err != nil {
		return max(t.level, mission.MinLevel), fmt.Errorf("read player: %w", err)
	}
	if p == nil {
		return 0, ErrNoPlayer
	}
	return max(p.Level, t.level, mission.MinLevel), nil
}
