package object

import (
	"strconv"

	"github.com/tomz197/warzone/internal/combat"
	"github.com/tomz197/warzone/internal/draw"
)

// Target draws one enemy as a ring with its id in the middle.
type Target struct {
	combat.Target
	Highlighted bool // under the crosshair
}

func (t Target) Draw(ctx DrawContext) error {
	if !t.Alive {
		return nil
	}
	ctx.Canvas.DrawCircle(t.X, t.Y, combat.HitRadius, t.Highlighted)

	label := strconv.Itoa(t.ID)
	col, row := ctx.Canvas.LogicalToTerminal(t.X, t.Y)
	col -= len(label) / 2
	color := draw.ColorRed
	if t.Highlighted {
		color = draw.ColorYellow
	}
	writeText(ctx, col, row, label, color)
	return nil
}

func (t Target) Update(UpdateContext) (bool, error) {
	return false, nil
}

// Explosion marks a recent kill until the combat effect expires.
type Explosion struct {
	combat.Effect
}

func (e Explosion) Draw(ctx DrawContext) error {
	col, row := ctx.Canvas.LogicalToTerminal(e.X, e.Y)
	writeText(ctx, col, row, "*", draw.ColorYellow)
	return nil
}

func (e Explosion) Update(UpdateContext) (bool, error) {
	return false, nil
}
