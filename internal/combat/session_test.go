package combat

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/warzone/internal/mission"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T, level int) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s, err := Start(mission.Default(), level,
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(int64(level)))),
	)
	require.NoError(t, err)
	return s, clock
}

func TestStartInitialState(t *testing.T) {
	catalog := mission.Default()
	for level := mission.MinLevel; level <= mission.MaxLevel; level++ {
		s, _ := newTestSession(t, level)
		m, _ := catalog.MissionFor(level)

		assert.Equal(t, StateActive, s.State())
		assert.Equal(t, StartingHealth, s.Health())
		assert.Equal(t, StartingAmmo, s.Ammo())
		assert.Equal(t, 0, s.Kills())
		assert.Equal(t, level, s.Level())
		assert.NotEmpty(t, s.ID())

		targets := s.Targets()
		require.Len(t, targets, m.EnemyCount)
		for i, tg := range targets {
			assert.Equal(t, i, tg.ID)
			assert.True(t, tg.Alive)
			assert.GreaterOrEqual(t, tg.X, SpawnMinX)
			assert.LessOrEqual(t, tg.X, SpawnMaxX)
			assert.GreaterOrEqual(t, tg.Y, SpawnMinY)
			assert.LessOrEqual(t, tg.Y, SpawnMaxY)
		}
		assert.Equal(t, m.EnemyCount, s.Remaining())
	}
}

func TestStartOutOfRange(t *testing.T) {
	for _, level := range []int{0, 11} {
		_, err := Start(mission.Default(), level)
		assert.ErrorIs(t, err, mission.ErrOutOfRange)
	}
}

func TestFireAtKillsTarget(t *testing.T) {
	s, _ := newTestSession(t, 1)

	out, err := s.FireAt(2)
	require.NoError(t, err)
	assert.Equal(t, ShotOutcome{AmmoRemaining: 29, Killed: true}, out)
	assert.Equal(t, 1, s.Kills())
	assert.False(t, s.Targets()[2].Alive)
	assert.Equal(t, 4, s.Remaining())
}

func TestFireAtDeadOrUnknownConsumesAmmoOnly(t *testing.T) {
	s, _ := newTestSession(t, 1)
	_, err := s.FireAt(0)
	require.NoError(t, err)

	for _, id := range []int{0, -1, 99} {
		before := s.Ammo()
		out, err := s.FireAt(id)
		require.NoError(t, err)
		assert.False(t, out.Killed)
		assert.Equal(t, before-1, out.AmmoRemaining)
		assert.Equal(t, 1, s.Kills(), "kills must not change for id %d", id)
	}
}

func TestAmmoAccounting(t *testing.T) {
	s, _ := newTestSession(t, 10)

	for n := 1; n <= StartingAmmo; n++ {
		out, err := s.FireAt(-1)
		require.NoError(t, err)
		assert.Equal(t, StartingAmmo-n, out.AmmoRemaining)
	}
	_, err := s.FireAt(-1)
	assert.ErrorIs(t, err, ErrOutOfAmmo)
	assert.Equal(t, 0, s.Ammo())
}

func TestClearLevelOne(t *testing.T) {
	s, _ := newTestSession(t, 1)

	var last ShotOutcome
	for id := 0; id < 5; id++ {
		out, err := s.FireAt(id)
		require.NoError(t, err)
		assert.Equal(t, id == 4, out.Cleared)
		last = out
	}

	assert.True(t, last.Cleared)
	assert.Equal(t, StateCleared, s.State())
	assert.Equal(t, 5, s.Kills())
	assert.Equal(t, 25, s.Ammo())

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, Result{MissionLevel: 1, Kills: 5}, res)

	_, err := s.FireAt(0)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestEveryMissionFitsTheMagazine(t *testing.T) {
	for _, m := range mission.Default().All() {
		assert.LessOrEqual(t, m.EnemyCount, StartingAmmo, "level %d", m.Level)
	}
}

func TestOutOfAmmoOnDeadTargetKeepsSessionActive(t *testing.T) {
	s, _ := newTestSession(t, 1)

	for i := 0; i < 30; i++ {
		_, err := s.FireAt(0)
		require.NoError(t, err)
	}
	_, err := s.FireAt(0)
	assert.ErrorIs(t, err, ErrOutOfAmmo)
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 1, s.Kills())

	_, ok := s.Result()
	assert.False(t, ok)
}

func TestClearLevelTenNeedsEveryTarget(t *testing.T) {
	s, _ := newTestSession(t, 10)
	m := s.Mission()
	require.LessOrEqual(t, m.EnemyCount, StartingAmmo)

	for id := 0; id < m.EnemyCount; id++ {
		require.Equal(t, StateActive, s.State())
		_, err := s.FireAt(id)
		require.NoError(t, err)
	}
	assert.Equal(t, StateCleared, s.State())
	assert.Equal(t, m.EnemyCount, s.Kills())
}

func TestExit(t *testing.T) {
	s, _ := newTestSession(t, 3)
	s.Exit()
	assert.Equal(t, StateExited, s.State())

	_, err := s.FireAt(0)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestExitAfterClearKeepsResult(t *testing.T) {
	s, _ := newTestSession(t, 1)
	for id := 0; id < 5; id++ {
		_, err := s.FireAt(id)
		require.NoError(t, err)
	}
	s.Exit()
	assert.Equal(t, StateCleared, s.State())
	res, ok := s.Result()
	assert.True(t, ok)
	assert.Equal(t, 5, res.Kills)
}

func TestEffectsExpire(t *testing.T) {
	s, clock := newTestSession(t, 1)

	_, err := s.FireAt(1)
	require.NoError(t, err)
	effects := s.Effects()
	require.Len(t, effects, 1)
	tg := s.Targets()[1]
	assert.Equal(t, tg.X, effects[0].X)
	assert.Equal(t, tg.Y, effects[0].Y)
	assert.Equal(t, clock.Now().Add(EffectDuration), effects[0].Expires)

	clock.Advance(EffectDuration - time.Millisecond)
	assert.Equal(t, 0, s.Scheduler().RunDue(clock.Now()))
	assert.Len(t, s.Effects(), 1)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, s.Scheduler().RunDue(clock.Now()))
	assert.Empty(t, s.Effects())
}

func TestEffectsDoNotTouchCounters(t *testing.T) {
	s, clock := newTestSession(t, 1)
	_, err := s.FireAt(0)
	require.NoError(t, err)
	_, err = s.FireAt(-1)
	require.NoError(t, err)

	ammo, kills, remaining := s.Ammo(), s.Kills(), s.Remaining()
	clock.Advance(time.Second)
	s.Scheduler().RunDue(clock.Now())

	assert.Equal(t, ammo, s.Ammo())
	assert.Equal(t, kills, s.Kills())
	assert.Equal(t, remaining, s.Remaining())
	assert.Equal(t, StartingHealth, s.Health())
}

func TestExitCancelsOwnedTasks(t *testing.T) {
	s, clock := newTestSession(t, 1)
	fired := false
	s.After(100*time.Millisecond, func() { fired = true })
	_, err := s.FireAt(0)
	require.NoError(t, err)
	require.Equal(t, 2, s.Scheduler().Pending())

	s.Exit()
	assert.Equal(t, 0, s.Scheduler().Pending())

	clock.Advance(time.Second)
	assert.Equal(t, 0, s.Scheduler().RunDue(clock.Now()))
	assert.False(t, fired)
	assert.Empty(t, s.Effects())
}

func TestSharedSchedulerIsolatesSessions(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	sched := NewScheduler()
	catalog := mission.Default()

	a, err := Start(catalog, 1, WithScheduler(sched), WithClock(clock.Now))
	require.NoError(t, err)
	b, err := Start(catalog, 1, WithScheduler(sched), WithClock(clock.Now))
	require.NoError(t, err)

	_, err = a.FireAt(0)
	require.NoError(t, err)
	_, err = b.FireAt(0)
	require.NoError(t, err)
	require.Equal(t, 2, sched.Pending())

	a.Exit()
	assert.Equal(t, 1, sched.Pending())

	clock.Advance(EffectDuration)
	sched.RunDue(clock.Now())
	assert.Empty(t, b.Effects())
}

func TestTargetAt(t *testing.T) {
	s, _ := newTestSession(t, 1)
	tg := s.Targets()[3]

	id := s.TargetAt(tg.X, tg.Y)
	require.NotEqual(t, -1, id)
	assert.True(t, s.Targets()[id].Contains(tg.X, tg.Y))
	assert.Equal(t, -1, s.TargetAt(0, 0))
	assert.Equal(t, -1, s.TargetAt(tg.X+HitRadius+SpawnMaxX, tg.Y))

	for i := range s.Targets() {
		_, err := s.FireAt(i)
		require.NoError(t, err)
	}
	assert.Equal(t, -1, s.TargetAt(tg.X, tg.Y), "dead targets cannot be hit")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "cleared", StateCleared.String())
	assert.Equal(t, "State(9)", State(9).String())
}
