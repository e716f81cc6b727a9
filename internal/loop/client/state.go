package client

import (
	"time"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/combat"
	"github.com/tomz197/warzone/internal/object"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateMenu     GameState = iota // Mission select
	GameStatePlaying                   // Combat session active
	GameStateCleared                   // Mission complete, returning to menu
	GameStateProfile                   // Player record and arsenal
	GameStateShutdown                  // Server is shutting down
)

// notice is a transient message shown over any screen.
type notice struct {
	text  string
	color string
	task  combat.TaskID
}

// ClientState holds per-connection state. It is only touched by the client loop.
type ClientState struct {
	Input         object.Input
	GameState     GameState
	prevGameState GameState
	Running       bool
	delta         time.Duration
	shutdownTimer float64
	isInactive    bool
	wasInactive   bool

	Player   account.Player // last known record, refreshed on menu entry
	Level    int            // highest unlocked mission
	Selected int            // mission chosen on the menu

	Session   *combat.Session
	Crosshair *object.Crosshair
	particles []object.Object
	seen      map[int]struct{} // effect ids already turned into particles

	toast      string // cleared screen headline
	returnTask combat.TaskID
	notice     notice
}

// NewClientState creates a client state positioned on the menu.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateMenu,
		Running:   true,
		Level:     1,
		Selected:  1,
		seen:      make(map[int]struct{}),
	}
}

// Spawn collects particles spawned during update.
func (s *ClientState) Spawn(obj object.Object) {
	s.particles = append(s.particles, obj)
}
