// Package object holds the drawable entities of the combat screen.
package object

import (
	"time"

	"github.com/tomz197/warzone/internal/draw"
	"github.com/tomz197/warzone/internal/input"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Input is an alias for the input package's Input type.
type Input = input.Input

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Input   Input
	Spawner Spawner
}

// DrawContext provides drawing resources for objects. Canvas is in logical
// units; Writer takes 1-based terminal positions relative to the render area.
type DrawContext struct {
	Canvas *draw.Canvas
	Writer *draw.ChunkWriter
}

// Object is a drawable and updatable entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// writeText writes s at the 1-based (col, row), optionally colored, and marks
// the cells so the canvas repaints them once the text is gone.
func writeText(ctx DrawContext, col, row int, s, color string) {
	if s == "" || row < 1 || row > ctx.Canvas.TerminalHeight() {
		return
	}
	col = max(col, 1)
	if color != "" {
		ctx.Writer.WriteAt(col, row, color+s+draw.ColorReset)
	} else {
		ctx.Writer.WriteAt(col, row, s)
	}
	ctx.Canvas.MarkTextDirty(col, row, len([]rune(s)))
}
