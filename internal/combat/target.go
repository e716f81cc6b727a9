package combat

import (
	"time"

	"github.com/tomz197/warzone/internal/physics"
)

// Spawn area in percentage coordinates of the playfield.
const (
	SpawnMinX = 10.0
	SpawnMaxX = 90.0
	SpawnMinY = 20.0
	SpawnMaxY = 80.0
)

// HitRadius is the radius, in percentage units, of a target's hit region.
const HitRadius = 4.0

// Target is an enemy spawned for one session. Targets are never removed,
// only flagged dead.
type Target struct {
	ID    int
	X, Y  float64
	Alive bool
}

// Contains reports whether the point (x, y) falls inside the target's hit region.
func (t Target) Contains(x, y float64) bool {
	return physics.PointInCircle(x, y, t.X, t.Y, HitRadius)
}

// Effect is an observation-only feedback marker (an explosion) left where a
// target died. It expires on its own and never touches session counters.
type Effect struct {
	ID      int
	X, Y    float64
	Expires time.Time
}

// spawnTargets places count targets at independently sampled positions.
// Overlap is allowed.
func (s *Session) spawnTargets(count int) {
	s.targets = make([]Target, count)
	for i := range s.targets {
		s.targets[i] = Target{
			ID:    i,
			X:     SpawnMinX + s.rng.Float64()*(SpawnMaxX-SpawnMinX),
			Y:     SpawnMinY + s.rng.Float64()*(SpawnMaxY-SpawnMinY),
			Alive: true,
		}
	}
}
