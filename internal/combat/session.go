// Package combat implements a single mission playthrough: the target set, the
// ammo and health economy, and the clear condition.
package combat

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/warzone/internal/mission"
)

// Starting loadout of every session.
const (
	StartingHealth = 100
	StartingAmmo   = 30
	MaxHealth      = 100
)

// EffectDuration is how long an explosion marker stays visible.
const EffectDuration = 500 * time.Millisecond

var (
	// ErrOutOfAmmo is returned by FireAt when the magazine is empty. The session stays active.
	ErrOutOfAmmo = errors.New("out of ammo")
	// ErrSessionClosed is returned when acting on a cleared or exited session.
	ErrSessionClosed = errors.New("session closed")
)

// State is the lifecycle phase of a session.
type State int

const (
	StateInitializing State = iota
	StateActive
	StateCleared
	StateExited
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateActive:
		return "active"
	case StateCleared:
		return "cleared"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is recorded when a session clears.
type Result struct {
	MissionLevel int
	Kills        int
}

// ShotOutcome describes the effect of one FireAt call.
type ShotOutcome struct {
	AmmoRemaining int
	Killed        bool
	Cleared       bool
}

// Session is the live state of one mission playthrough. It is owned by a single
// execution context and is not safe for concurrent use.
type Session struct {
	id      string
	mission mission.Mission
	state   State
	result  Result

	health int
	ammo   int
	kills  int

	targets    []Target
	effects    []Effect
	nextEffect int

	sched *Scheduler
	owned map[TaskID]struct{}
	now   func() time.Time
	rng   *rand.Rand
}

// Option configures a session at start.
type Option func(*Session)

// WithScheduler runs the session's deferred tasks on s instead of a private scheduler.
func WithScheduler(s *Scheduler) Option {
	return func(sess *Session) { sess.sched = s }
}

// WithClock overrides the time source used to schedule deferred tasks.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) { sess.now = now }
}

// WithRand sets the random source used to place targets.
func WithRand(r *rand.Rand) Option {
	return func(sess *Session) { sess.rng = r }
}

// Start looks up the mission for level and returns an active session for it.
func Start(catalog *mission.Catalog, level int, opts ...Option) (*Session, error) {
	m, err := catalog.MissionFor(level)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.NewString(),
		mission: m,
		state:   StateInitializing,
		owned:   make(map[TaskID]struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = NewScheduler()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.health = StartingHealth
	s.ammo = StartingAmmo
	s.kills = 0
	s.spawnTargets(m.EnemyCount)

	s.state = StateActive
	return s, nil
}

// FireAt spends one round at the target with the given id.
// A dead or unknown id still consumes the round but changes nothing else.
func (s *Session) FireAt(targetID int) (ShotOutcome, error) {
	if s.state != StateActive {
		return ShotOutcome{AmmoRemaining: s.ammo}, ErrSessionClosed
	}
	if s.ammo == 0 {
		return ShotOutcome{AmmoRemaining: 0}, ErrOutOfAmmo
	}

	s.ammo--
	out := ShotOutcome{}

	var hit *Target
	if targetID >= 0 && targetID < len(s.targets) && s.targets[targetID].Alive {
		hit = &s.targets[targetID]
		hit.Alive = false
		s.kills++
		out.Killed = true
	}

	if s.Remaining() == 0 {
		s.state = StateCleared
		s.result = Result{MissionLevel: s.mission.Level, Kills: s.kills}
		out.Cleared = true
	}
	out.AmmoRemaining = s.ammo

	// Counters are final; feedback is scheduled only now.
	if hit != nil {
		s.addEffect(hit.X, hit.Y)
	}
	return out, nil
}

// addEffect drops an explosion marker and schedules its removal.
func (s *Session) addEffect(x, y float64) {
	s.nextEffect++
	id := s.nextEffect
	s.effects = append(s.effects, Effect{ID: id, X: x, Y: y, Expires: s.now().Add(EffectDuration)})
	s.After(EffectDuration, func() { s.removeEffect(id) })
}

func (s *Session) removeEffect(id int) {
	for i, e := range s.effects {
		if e.ID == id {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// After schedules fn on the session's scheduler. The task is owned by the
// session and is cancelled by Exit if it has not run yet.
func (s *Session) After(d time.Duration, fn func()) TaskID {
	var id TaskID
	id = s.sched.After(s.now(), d, func() {
		delete(s.owned, id)
		fn()
	})
	s.owned[id] = struct{}{}
	return id
}

// Exit abandons the session. An active session becomes Exited; a cleared one
// keeps its result. Pending deferred tasks are cancelled either way.
func (s *Session) Exit() {
	if s.state == StateActive {
		s.state = StateExited
	}
	for id := range s.owned {
		s.sched.Cancel(id)
		delete(s.owned, id)
	}
	s.effects = nil
}

// TargetAt returns the id of the alive target whose hit region contains (x, y),
// or -1 if the point misses. Later targets are drawn on top and win ties.
func (s *Session) TargetAt(x, y float64) int {
	for i := len(s.targets) - 1; i >= 0; i-- {
		t := s.targets[i]
		if t.Alive && t.Contains(x, y) {
			return t.ID
		}
	}
	return -1
}

// Remaining returns the number of targets still alive.
func (s *Session) Remaining() int {
	n := 0
	for _, t := range s.targets {
		if t.Alive {
			n++
		}
	}
	return n
}

// Result returns the recorded clear result. ok is false until the session clears.
func (s *Session) Result() (Result, bool) {
	return s.result, s.state == StateCleared
}

// Targets returns a copy of the target set in spawn order.
func (s *Session) Targets() []Target {
	out := make([]Target, len(s.targets))
	copy(out, s.targets)
	return out
}

// Effects returns a copy of the live feedback markers.
func (s *Session) Effects() []Effect {
	out := make([]Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

func (s *Session) ID() string               { return s.id }
func (s *Session) Mission() mission.Mission { return s.mission }
func (s *Session) Level() int               { return s.mission.Level }
func (s *Session) State() State             { return s.state }
func (s *Session) Health() int              { return s.health }
func (s *Session) Ammo() int                { return s.ammo }
func (s *Session) Kills() int               { return s.kills }
func (s *Session) Scheduler() *Scheduler    { return s.sched }
