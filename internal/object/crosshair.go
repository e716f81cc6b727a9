package object

import (
	"github.com/tomz197/warzone/internal/draw"
	"github.com/tomz197/warzone/internal/input"
	"github.com/tomz197/warzone/internal/physics"
)

// crosshairArm is the logical length of each crosshair arm.
const crosshairArm = 2.5

// Crosshair is the player's aim point in logical view units.
type Crosshair struct {
	X, Y          float64
	Width, Height float64 // bounds of the view
	Step          float64 // units moved per key press
}

// NewCrosshair centers a crosshair in a width x height view.
func NewCrosshair(width, height, step float64) *Crosshair {
	return &Crosshair{X: width / 2, Y: height / 2, Width: width, Height: height, Step: step}
}

// Move shifts the crosshair one step per movement key in in, staying inside the view.
func (c *Crosshair) Move(in Input) {
	for _, k := range in.Keys {
		switch k {
		case input.KeyLeft:
			c.X -= c.Step
		case input.KeyRight:
			c.X += c.Step
		case input.KeyUp:
			c.Y -= c.Step
		case input.KeyDown:
			c.Y += c.Step
		}
	}
	c.X = physics.Clamp(c.X, 0, c.Width)
	c.Y = physics.Clamp(c.Y, 0, c.Height)
}

func (c *Crosshair) Draw(ctx DrawContext) error {
	gap := crosshairArm / 3
	ctx.Canvas.DrawLine(draw.Point{X: c.X - crosshairArm, Y: c.Y}, draw.Point{X: c.X - gap, Y: c.Y})
	ctx.Canvas.DrawLine(draw.Point{X: c.X + gap, Y: c.Y}, draw.Point{X: c.X + crosshairArm, Y: c.Y})
	ctx.Canvas.DrawLine(draw.Point{X: c.X, Y: c.Y - crosshairArm}, draw.Point{X: c.X, Y: c.Y - gap})
	ctx.Canvas.DrawLine(draw.Point{X: c.X, Y: c.Y + gap}, draw.Point{X: c.X, Y: c.Y + crosshairArm})
	return nil
}
