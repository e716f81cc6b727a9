// Package client runs the per-connection frame loop: menu, combat and
// profile screens for one player.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/combat"
	"github.com/tomz197/warzone/internal/draw"
	"github.com/tomz197/warzone/internal/input"
	"github.com/tomz197/warzone/internal/loop/config"
	"github.com/tomz197/warzone/internal/loop/server"
	"github.com/tomz197/warzone/internal/mission"
	"github.com/tomz197/warzone/internal/object"
	"github.com/tomz197/warzone/internal/progression"
)

// progressTracker is the part of progression.Tracker the client uses.
type progressTracker interface {
	Advance(ctx context.Context, currentLevel int) (int, error)
	Level(ctx context.Context) (int, error)
}

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	tracker      progressTracker
	state        *ClientState
	sched        *combat.Scheduler
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	overlay      *draw.ChunkWriter // object labels, flushed into chunkWriter after the canvas
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	identity     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	now          func() time.Time
	ctx          context.Context
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Identity     string
	Logger       *log.Logger
	Clock        func() time.Time
}

// NewClient creates a client for opts.Identity connected to gs.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	termWidth, termHeight, _ := termSizeFunc()
	width, height, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(width, height, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)
	c := &Client{
		server:       gs,
		handle:       gs.RegisterClient(opts.Identity),
		tracker:      gs.TrackerFor(opts.Identity),
		state:        NewClientState(),
		sched:        combat.NewScheduler(),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		overlay:      draw.NewChunkWriter(chunkWriter, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    now(),
		identity:     opts.Identity,
		termSizeFunc: termSizeFunc,
		logger:       logger.With("identity", opts.Identity),
		now:          now,
		ctx:          context.Background(),
	}
	c.enterMenu()
	return c
}

// Run starts the client loop. Blocks until the player quits, the input
// closes, ctx is cancelled or the server shuts down.
func (c *Client) Run(ctx context.Context) error {
	c.ctx = ctx
	defer c.server.UnregisterClient(c.handle.ID)

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := c.now()
	for c.state.Running {
		frameStart := c.now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if ctx.Err() != nil {
			break
		}
		c.processInput()
		c.tick(frameStart)

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := c.now().Sub(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	if c.state.Session != nil {
		c.state.Session.Exit()
	}
	draw.ClearScreen(c.writer)
	return nil
}

// tick advances everything but input: hub events, deferred tasks, resize
// and the current screen.
func (c *Client) tick(now time.Time) {
	c.processServerEvents()
	c.sched.RunDue(now)
	c.updateScreen()

	if c.state.Input.Quit && c.state.GameState != GameStatePlaying {
		c.state.Running = false
		return
	}

	switch c.state.GameState {
	case GameStateMenu:
		c.updateMenuState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateCleared:
		c.updateClearedState()
	case GameStateProfile:
		c.updateProfileState()
	case GameStateShutdown:
		c.updateShutdownState()
	}
	c.updateParticles()
}

// processInput reads this frame's input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	if c.state.Input.Closed {
		c.state.Running = false
		return
	}

	idle := c.now().Sub(c.lastInput).Seconds()
	switch {
	case len(c.state.Input.Keys) > 0:
		c.lastInput = c.now()
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				if c.state.Session != nil {
					c.state.Session.Exit()
				}
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventAnnouncement:
				c.showNotice(event.Message, draw.ColorBrightCyan)
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to the max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	width, height, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	if width != c.canvas.TerminalWidth() || height != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}
	c.canvas.Resize(width, height)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.overlay.SetOffset(offsetCol, offsetRow)
}

func clampTermSize(termWidth, termHeight int) (width, height, offsetCol, offsetRow int) {
	return draw.Fit(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
}

// enterMenu refreshes the player record and unlocked level, then shows the menu.
func (c *Client) enterMenu() {
	input.ResetKeyInput(c.inputStream)
	c.state.Session = nil
	c.state.Crosshair = nil
	c.state.GameState = GameStateMenu

	if p, err := c.server.Accounts().Store().Get(c.ctx, c.identity); err == nil {
		c.state.Player = p
	} else if !errors.Is(err, account.ErrNotFound) {
		c.logger.Warn("load player", "err", err)
	}

	level, err := c.tracker.Level(c.ctx)
	switch {
	case err == nil:
		c.state.Level = level
	case errors.Is(err, progression.ErrNoPlayer):
		c.state.Level = mission.MinLevel
	default:
		c.logger.Warn("read level", "err", err)
		c.state.Level = max(level, c.state.Level)
	}
	c.state.Selected = c.state.Level
}

// updateMenuState handles the mission select screen.
func (c *Client) updateMenuState() {
	in := c.state.Input
	switch {
	case in.Pressed(input.KeyLeft) || in.Pressed(input.KeyDown):
		c.state.Selected = max(c.state.Selected-1, mission.MinLevel)
	case in.Pressed(input.KeyRight) || in.Pressed(input.KeyUp):
		c.state.Selected = min(c.state.Selected+1, c.state.Level)
	case in.Pressed(input.KeySpace) || in.Pressed(input.KeyEnter):
		c.startMission(c.state.Selected)
	case in.Pressed('p'):
		c.state.GameState = GameStateProfile
	}
}

// startMission begins a combat session for level.
func (c *Client) startMission(level int) {
	sess, err := combat.Start(c.server.Catalog(), level,
		combat.WithScheduler(c.sched),
		combat.WithClock(c.now),
	)
	if err != nil {
		c.logger.Error("start mission", "level", level, "err", err)
		c.showNotice("Mission unavailable", draw.ColorRed)
		return
	}
	input.ResetKeyInput(c.inputStream)
	c.state.Session = sess
	c.state.Crosshair = object.NewCrosshair(config.ViewWidth, config.ViewHeight, config.CrosshairStep)
	c.state.particles = nil
	clear(c.state.seen)
	c.state.GameState = GameStatePlaying
	c.logger.Info("mission started", "level", level, "session", sess.ID(), "enemies", sess.Mission().EnemyCount)
}

// updatePlayingState moves the crosshair and fires.
func (c *Client) updatePlayingState() {
	sess := c.state.Session
	in := c.state.Input

	if in.Quit || in.Pressed(input.KeyEscape) || in.Pressed('m') {
		sess.Exit()
		c.logger.Info("mission abandoned", "level", sess.Level(), "kills", sess.Kills())
		if in.Quit {
			c.state.Running = false
			return
		}
		c.enterMenu()
		return
	}

	c.state.Crosshair.Move(in)

	if in.Pressed(input.KeySpace) {
		c.fire(sess.TargetAt(c.state.Crosshair.X, c.state.Crosshair.Y))
	}
	if d := in.Digit(); d >= 0 && sess.State() == combat.StateActive {
		c.fire(d)
	}
}

// fire spends one round at targetID and reacts to the outcome.
func (c *Client) fire(targetID int) {
	sess := c.state.Session
	if sess.State() != combat.StateActive {
		return
	}
	out, err := sess.FireAt(targetID)
	switch {
	case errors.Is(err, combat.ErrOutOfAmmo):
		c.showNotice("OUT OF AMMO - press ESC to retreat", draw.ColorRed)
		return
	case err != nil:
		c.logger.Warn("fire", "err", err)
		return
	}
	if out.Cleared {
		c.missionCleared()
	}
}

// missionCleared records the clear exactly once and schedules the return to the menu.
func (c *Client) missionCleared() {
	sess := c.state.Session
	result, _ := sess.Result()
	c.state.toast = fmt.Sprintf("MISSION COMPLETE — kills %d", result.Kills)
	c.state.GameState = GameStateCleared

	level, err := c.tracker.Advance(c.ctx, result.MissionLevel)
	switch {
	case err == nil:
	case errors.Is(err, progression.ErrPersistence):
		c.logger.Error("save progress", "level", level, "err", err)
		c.showNotice("Progress not saved - it is kept for this session", draw.ColorYellow)
	default:
		c.logger.Error("advance", "err", err)
	}
	if level > 0 {
		c.state.Level = level
	}
	c.logger.Info("mission cleared", "level", result.MissionLevel, "kills", result.Kills, "unlocked", c.state.Level)
	c.server.Announce(c.handle.ID, fmt.Sprintf("%s cleared %s", c.identity, sess.Mission().Name))

	c.state.returnTask = sess.After(config.ReturnToMenuDelay, c.leaveClearedSession)
}

// leaveClearedSession exits the cleared session, cancelling what it still
// has scheduled, and shows the menu.
func (c *Client) leaveClearedSession() {
	if c.state.Session != nil {
		c.state.Session.Exit()
	}
	c.enterMenu()
}

// updateClearedState lets the player skip the return delay.
func (c *Client) updateClearedState() {
	in := c.state.Input
	if in.Pressed(input.KeyEscape) || in.Pressed('m') || in.Pressed(input.KeyEnter) {
		c.leaveClearedSession()
	}
}

// updateProfileState returns to the menu on any dismiss key.
func (c *Client) updateProfileState() {
	in := c.state.Input
	if in.Pressed(input.KeyEscape) || in.Pressed('p') || in.Pressed('m') || in.Pressed(input.KeyEnter) {
		c.state.GameState = GameStateMenu
	}
}

// updateShutdownState counts down to the forced disconnect.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// updateParticles turns new kill effects into particle bursts and ages them.
func (c *Client) updateParticles() {
	if sess := c.state.Session; sess != nil {
		for _, e := range sess.Effects() {
			if _, ok := c.state.seen[e.ID]; ok {
				continue
			}
			c.state.seen[e.ID] = struct{}{}
			object.SpawnExplosion(e.X, e.Y, 12, 30, combat.EffectDuration.Seconds(), c.state)
		}
	}

	ctx := object.UpdateContext{Delta: c.state.delta}
	kept := c.state.particles[:0]
	for _, p := range c.state.particles {
		if remove, _ := p.Update(ctx); remove {
			object.ReleaseObject(p)
			continue
		}
		kept = append(kept, p)
	}
	c.state.particles = kept
}

// showNotice displays text for NoticeDuration, replacing any current notice.
func (c *Client) showNotice(text, color string) {
	if c.state.notice.task != 0 {
		c.sched.Cancel(c.state.notice.task)
	}
	var id combat.TaskID
	id = c.sched.After(c.now(), config.NoticeDuration, func() {
		if c.state.notice.task == id {
			c.state.notice = notice{}
		}
	})
	c.state.notice = notice{text: text, color: color, task: id}
}
