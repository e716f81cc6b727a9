package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/app"
	"github.com/tomz197/warzone/internal/config"
	"github.com/tomz197/warzone/internal/logging"
	"github.com/tomz197/warzone/internal/mission"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// ladderSize caps the number of players shown on the landing page.
const ladderSize = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, "web")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup", "err", err)
	}
	defer svcs.Close()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.WebHost, cfg.WebPort),
		Handler:           newHandler(svcs.Catalog, svcs.Store, cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

type ladderEntry struct {
	Rank     int
	Identity string
	Level    int
	Mission  string
}

type pageData struct {
	SSHHost  string
	SSHPort  string
	Missions []mission.Mission
	Ladder   []ladderEntry
}

func newHandler(catalog *mission.Catalog, store account.Store, cfg config.Config, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		players, err := store.List(r.Context())
		if err != nil {
			logger.Error("list players", "err", err)
			http.Error(w, "player ladder unavailable", http.StatusInternalServerError)
			return
		}
		data := pageData{
			SSHHost:  cfg.SSHDisplayHost,
			SSHPort:  cfg.SSHPort,
			Missions: catalog.All(),
			Ladder:   ladder(catalog, players, ladderSize),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, data); err != nil {
			logger.Error("render index", "err", err)
		}
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	return mux
}

// ladder ranks non-admin players by level, then by who got there first.
func ladder(catalog *mission.Catalog, players []account.Player, n int) []ladderEntry {
	ranked := make([]account.Player, 0, len(players))
	for _, p := range players {
		if !p.Admin {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Level != ranked[j].Level {
			return ranked[i].Level > ranked[j].Level
		}
		return ranked[i].UpdatedAt.Before(ranked[j].UpdatedAt)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]ladderEntry, len(ranked))
	for i, p := range ranked {
		e := ladderEntry{Rank: i + 1, Identity: p.Identity, Level: p.Level}
		if m, err := catalog.MissionFor(p.Level); err == nil {
			e.Mission = m.Name
		}
		out[i] = e
	}
	return out
}
