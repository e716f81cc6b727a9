package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/mission"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	svc := account.NewService(account.NewMemoryStore(), account.WithHashCost(bcrypt.MinCost))
	return NewHub(mission.Default(), svc, nil)
}

func TestRegisterUnregister(t *testing.T) {
	h := newTestHub(t)

	a := h.RegisterClient("viper")
	b := h.RegisterClient("ghost")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, h.OnlineCount())

	h.UnregisterClient(a.ID)
	h.UnregisterClient(a.ID)
	assert.Equal(t, 1, h.OnlineCount())

	_, open := <-a.EventsCh
	assert.False(t, open)
}

func TestTrackerSharedPerIdentity(t *testing.T) {
	h := newTestHub(t)
	assert.Same(t, h.TrackerFor("viper"), h.TrackerFor("viper"))
	assert.NotSame(t, h.TrackerFor("viper"), h.TrackerFor("ghost"))
}

func TestTrackerAdvancesStoredPlayer(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)
	_, err := h.Accounts().Register(ctx, "viper", "", "pw")
	require.NoError(t, err)

	level, err := h.TrackerFor("viper").Advance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, level)

	p, err := h.Accounts().Store().Get(ctx, "viper")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Level)
}

func TestAnnounceSkipsSender(t *testing.T) {
	h := newTestHub(t)
	a := h.RegisterClient("viper")
	b := h.RegisterClient("ghost")

	h.Announce(a.ID, "viper cleared Boot Camp")

	select {
	case ev := <-b.EventsCh:
		assert.Equal(t, EventAnnouncement, ev.Type)
		assert.Equal(t, "viper cleared Boot Camp", ev.Message)
	default:
		t.Fatal("announcement not delivered")
	}
	assert.Empty(t, a.EventsCh)
}

func TestShutdownWaitsForClients(t *testing.T) {
	h := newTestHub(t)

	var wg sync.WaitGroup
	for _, id := range []string{"viper", "ghost", "echo"} {
		handle := h.RegisterClient(id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range handle.EventsCh {
				if ev.Type == EventServerShutdown {
					h.UnregisterClient(handle.ID)
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		h.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not return")
	}
	wg.Wait()
	assert.Zero(t, h.OnlineCount())
}

func TestShutdownTimesOut(t *testing.T) {
	h := newTestHub(t)
	h.RegisterClient("stubborn")

	start := time.Now()
	h.Shutdown(100 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, h.OnlineCount())
}
