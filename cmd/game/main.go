package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/warzone/internal/app"
	"github.com/tomz197/warzone/internal/config"
	"github.com/tomz197/warzone/internal/logging"
	"github.com/tomz197/warzone/internal/loop/client"
	"github.com/tomz197/warzone/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	identity := os.Getenv("WARZONE_PLAYER")
	if identity == "" {
		identity = os.Getenv("USER")
	}
	if identity == "" {
		identity = "player"
	}

	// The terminal belongs to the game, so logs go to a file.
	var logOut io.Writer = io.Discard
	if err := os.MkdirAll(cfg.DataDir, 0o755); err == nil {
		if f, err := os.OpenFile(filepath.Join(cfg.DataDir, "game.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			defer f.Close()
			logOut = f
		}
	}
	logger := logging.New(logOut, cfg.LogLevel, "game")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svcs.Close()

	if _, err := svcs.Accounts.EnsurePlayer(ctx, identity); err != nil {
		return fmt.Errorf("load player %q: %w", identity, err)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	hub := server.NewHub(svcs.Catalog, svcs.Accounts, logger)
	c := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Identity: identity,
		Logger:   logger,
	})
	return c.Run(ctx)
}
