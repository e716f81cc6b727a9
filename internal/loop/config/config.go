// Package config centralizes all tunable game parameters.
package config

import "time"

// View resolution in logical units. Combat positions are percentages of
// this area; rendering scales it to the terminal.
const (
	ViewWidth  = 100
	ViewHeight = 100
)

// Terminal bounds. Larger terminals are letterboxed.
const (
	MinTermWidth  = 40
	MinTermHeight = 20
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Player
const (
	MaxUsernameLength = 16  // Maximum display length for player identities
	CrosshairStep     = 2.0 // View units moved per key press
)

// Timed feedback, driven by the combat scheduler.
const (
	ReturnToMenuDelay = 500 * time.Millisecond  // Cleared screen before returning to menu
	NoticeDuration    = 1500 * time.Millisecond // Out of ammo and save failure notices
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownGracePeriod    = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
