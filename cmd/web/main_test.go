package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/config"
	"github.com/tomz197/warzone/internal/logging"
	"github.com/tomz197/warzone/internal/mission"
)

func TestIndexPage(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryStore()
	require.NoError(t, store.Put(ctx, account.Player{Identity: "viper", Level: 4}))
	require.NoError(t, store.Put(ctx, account.Player{Identity: "<script>", Level: 2}))
	require.NoError(t, store.Put(ctx, account.Player{Identity: "root", Level: 10, Admin: true}))

	h := newHandler(mission.Default(), store, config.Config{SSHDisplayHost: "play.example.com", SSHPort: "2222"}, logging.Discard())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ssh -t -p 2222 callsign@play.example.com")
	assert.Contains(t, body, "Boot Camp")
	assert.Contains(t, body, "Final Battle")
	assert.Contains(t, body, "viper")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<td>root</td>")
}

func TestHealthz(t *testing.T) {
	h := newHandler(mission.Default(), account.NewMemoryStore(), config.Config{}, logging.Discard())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUnknownPath(t *testing.T) {
	h := newHandler(mission.Default(), account.NewMemoryStore(), config.Config{}, logging.Discard())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLadderOrder(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	players := []account.Player{
		{Identity: "late", Level: 5, UpdatedAt: t0.Add(time.Hour)},
		{Identity: "early", Level: 5, UpdatedAt: t0},
		{Identity: "top", Level: 9, UpdatedAt: t0.Add(2 * time.Hour)},
		{Identity: "rookie", Level: 1},
	}
	got := ladder(mission.Default(), players, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "top", got[0].Identity)
	assert.Equal(t, "early", got[1].Identity)
	assert.Equal(t, "late", got[2].Identity)
	assert.Equal(t, 3, got[2].Rank)
	assert.NotEmpty(t, got[0].Mission)
}
