package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/combat"
	"github.com/tomz197/warzone/internal/loop/config"
	"github.com/tomz197/warzone/internal/mission"
	"github.com/tomz197/warzone/internal/object"
)

var titleArt = []string{
	`__        ___    ____  __________  _   _ _____ `,
	`\ \      / / \  |  _ \|__  / _ \| \ | | ____|`,
	` \ \ /\ / / _ \ | |_) | / / | | |  \| |  _|  `,
	`  \ V  V / ___ \|  _ < / /| |_| | |\  | |___ `,
	`   \_/\_/_/   \_\_| \_\/____\___/|_| \_|_____|`,
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	lockedStyle   = lipgloss.NewStyle().Faint(true)
	bannerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, clear the terminal so UI from the
	// previous screen does not persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	ctx := object.DrawContext{Canvas: c.canvas, Writer: c.overlay}

	if sess := c.state.Session; sess != nil && !c.state.isInactive &&
		(c.state.GameState == GameStatePlaying || c.state.GameState == GameStateCleared) {
		aim := -1
		if c.state.Crosshair != nil {
			aim = sess.TargetAt(c.state.Crosshair.X, c.state.Crosshair.Y)
		}
		for _, t := range sess.Targets() {
			if err := (object.Target{Target: t, Highlighted: t.ID == aim}).Draw(ctx); err != nil {
				return err
			}
		}
		for _, e := range sess.Effects() {
			if err := (object.Explosion{Effect: e}).Draw(ctx); err != nil {
				return err
			}
		}
		for _, p := range c.state.particles {
			if err := p.Draw(ctx); err != nil {
				return err
			}
		}
		if c.state.Crosshair != nil && c.state.GameState == GameStatePlaying {
			if err := c.state.Crosshair.Draw(ctx); err != nil {
				return err
			}
		}
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	c.canvas.RenderBorder(c.chunkWriter)
	// Labels were buffered in the overlay so they land on top of the canvas.
	if err := c.overlay.Flush(); err != nil {
		return err
	}
	c.drawUI()
	return c.chunkWriter.Flush()
}

// drawUI draws the text layer for the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case c.state.GameState == GameStateMenu:
		c.drawMenuScreen(centerX, termHeight)
	case c.state.GameState == GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case c.state.GameState == GameStateCleared:
		c.drawPlayingHUD(termWidth, termHeight)
		c.drawClearedScreen(centerX, centerY)
	case c.state.GameState == GameStateProfile:
		c.drawProfileScreen(centerX, centerY)
	}

	if n := c.state.notice; n.text != "" {
		c.writeLine(centerX-len([]rune(n.text))/2, termHeight-2, n.color+n.text+"\033[0m")
	}
}

// writeLine writes one line if its row is visible and marks it for repaint.
func (c *Client) writeLine(col, row int, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	col = max(col, 1)
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(s))
}

// writeCentered writes a multi-line block centered on (centerX, centerY).
func (c *Client) writeCentered(centerX, centerY int, block string) {
	lines := strings.Split(block, "\n")
	col := centerX - lipgloss.Width(block)/2
	row := centerY - len(lines)/2
	for i, line := range lines {
		c.writeLine(col, row+i, line)
	}
}

// drawMenuScreen draws the mission select screen.
func (c *Client) drawMenuScreen(centerX, termHeight int) {
	row := 2
	if termHeight >= 34 {
		width := lipgloss.Width(strings.Join(titleArt, "\n"))
		for i, line := range titleArt {
			c.writeLine(centerX-width/2, row+i, line)
		}
		row += len(titleArt) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Operator %s  |  Unlocked %d/%d  |  Online %d",
		truncate(c.identity, config.MaxUsernameLength), c.state.Level, mission.MaxLevel, c.server.OnlineCount())))
	b.WriteString("\n")
	for _, m := range c.server.Catalog().All() {
		line := fmt.Sprintf("%2d  %-18s %2d enemies", m.Level, m.Name, m.EnemyCount)
		switch {
		case m.Level == c.state.Selected:
			line = selectedStyle.Render(line)
		case m.Level > c.state.Level:
			line = lockedStyle.Render(line + "  LOCKED")
		}
		b.WriteString(line + "\n")
	}

	selected, err := c.server.Catalog().MissionFor(c.state.Selected)
	if err == nil {
		b.WriteString("\n" + selected.Description)
		if selected.Final() {
			b.WriteString("\n" + bannerStyle.Render("FINAL BATTLE - the last stand"))
		}
	}

	panel := panelStyle.Render(b.String())
	panelWidth := lipgloss.Width(panel)
	for i, line := range strings.Split(panel, "\n") {
		c.writeLine(centerX-panelWidth/2, row+i, line)
	}
	row += lipgloss.Height(panel) + 1

	hint := "</> select   SPACE deploy   P profile   Q quit"
	c.writeLine(centerX-len(hint)/2, row, hint)

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Deploy  <<"
		c.writeLine(centerX-len(prompt)/2, row+2, prompt)
	} else {
		c.writeLine(centerX-15, row+2, strings.Repeat(" ", 30))
	}
}

// drawPlayingHUD draws the combat status line and controls.
// Fields are fixed width so shrinking values leave no residue.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	sess := c.state.Session
	if sess == nil {
		return
	}
	m := sess.Mission()
	status := fmt.Sprintf("MISSION %-2d %-18s  HP %3d  AMMO %2d/%d  KILLS %2d  LEFT %2d",
		m.Level, m.Name, sess.Health(), sess.Ammo(), combat.StartingAmmo, sess.Kills(), sess.Remaining())
	c.writeLine(2, 1, status)
	if m.Final() {
		banner := "FINAL BATTLE"
		c.writeLine(termWidth-len(banner)-1, 1, bannerStyle.Render(banner))
	}

	controls := "WASD/arrows aim  SPACE fire  0-9 fire at id  ESC retreat  Q quit"
	c.writeLine(2, termHeight, controls)
}

// drawClearedScreen draws the mission complete toast.
func (c *Client) drawClearedScreen(centerX, centerY int) {
	var b strings.Builder
	b.WriteString(headerStyle.Render(c.state.toast))
	if sess := c.state.Session; sess != nil && sess.Mission().Final() {
		b.WriteString("\n" + bannerStyle.Render("FINAL BATTLE WON"))
	}
	fmt.Fprintf(&b, "\nUnlocked level %d", c.state.Level)
	b.WriteString("\nReturning to base...")
	c.writeCentered(centerX, centerY, panelStyle.Render(b.String()))
}

// drawProfileScreen draws the player record and the arsenal listing.
func (c *Client) drawProfileScreen(centerX, centerY int) {
	p := c.state.Player
	var b strings.Builder
	b.WriteString(headerStyle.Render("PROFILE") + "\n\n")
	fmt.Fprintf(&b, "Operator  %s\n", c.identity)
	if p.Email != "" {
		fmt.Fprintf(&b, "Email     %s\n", p.Email)
	}
	fmt.Fprintf(&b, "Level     %d/%d\n", c.state.Level, mission.MaxLevel)
	if p.Admin {
		b.WriteString("Role      admin\n")
	}
	fmt.Fprintf(&b, "Loadout   %s\n", listOrNone(p.Loadout))
	fmt.Fprintf(&b, "Allies    %s\n", listOrNone(p.Allies))

	b.WriteString("\n" + headerStyle.Render("ARSENAL") + "\n")
	for _, w := range account.Arsenal() {
		line := fmt.Sprintf("%-13s %5d XP", w.Name, w.Price)
		if p.HasWeapon(w.Name) {
			line += "  owned"
		} else {
			line = lockedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\nESC back")
	c.writeCentered(centerX, centerY, panelStyle.Render(b.String()))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	title := "INACTIVITY WARNING"
	c.writeLine(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %3d seconds.",
		int(config.InactivityDisconnectUser-c.now().Sub(c.lastInput).Seconds()),
	)
	c.writeLine(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	c.writeLine(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	title := "SERVER SHUTTING DOWN"
	c.writeLine(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance. Your progress is saved."
	c.writeLine(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	c.writeLine(centerX-len(msg2)/2, centerY, msg2)

	countdown := fmt.Sprintf("Disconnecting in %2d seconds...", int(c.state.shutdownTimer)+1)
	c.writeLine(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	c.writeLine(centerX-len(hint)/2, centerY+4, hint)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
