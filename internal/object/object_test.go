package object

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/warzone/internal/combat"
	"github.com/tomz197/warzone/internal/draw"
	"github.com/tomz197/warzone/internal/input"
)

type collector struct{ objs []Object }

func (c *collector) Spawn(obj Object) { c.objs = append(c.objs, obj) }

func newDrawContext(out *bytes.Buffer) DrawContext {
	return DrawContext{
		Canvas: draw.NewScaledCanvas(100, 50, 100, 100),
		Writer: draw.NewChunkWriter(out, 0, 0),
	}
}

func TestCrosshairMovesAndClamps(t *testing.T) {
	c := NewCrosshair(100, 100, 2)
	assert.Equal(t, 50.0, c.X)

	c.Move(input.Input{Keys: []input.Key{input.KeyLeft, input.KeyLeft, input.KeyDown}})
	assert.Equal(t, 46.0, c.X)
	assert.Equal(t, 52.0, c.Y)

	for range 40 {
		c.Move(input.Input{Keys: []input.Key{input.KeyUp}})
	}
	assert.Equal(t, 0.0, c.Y)
}

func TestTargetDrawsLabel(t *testing.T) {
	var out bytes.Buffer
	ctx := newDrawContext(&out)

	tgt := Target{Target: combat.Target{ID: 12, X: 50, Y: 50, Alive: true}}
	require.NoError(t, tgt.Draw(ctx))
	require.NoError(t, ctx.Writer.Flush())
	assert.Contains(t, out.String(), "12")

	out.Reset()
	dead := Target{Target: combat.Target{ID: 3, X: 50, Y: 50}}
	require.NoError(t, dead.Draw(ctx))
	require.NoError(t, ctx.Writer.Flush())
	assert.Empty(t, out.String())
}

func TestTextSkipsOffscreenRows(t *testing.T) {
	var out bytes.Buffer
	ctx := newDrawContext(&out)
	require.NoError(t, Text{X: 1, Y: 99, Value: "hidden"}.Draw(ctx))
	require.NoError(t, Text{X: 0, Y: 1, Value: "shown", Color: draw.ColorGreen}.Draw(ctx))
	require.NoError(t, ctx.Writer.Flush())
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "\033[1;1H"+draw.ColorGreen+"shown")
}

func TestExplosionParticlesExpire(t *testing.T) {
	var spawned collector
	SpawnExplosion(50, 50, 8, 20, 0.5, &spawned)
	require.Len(t, spawned.objs, 8)

	ctx := UpdateContext{Delta: 600 * time.Millisecond}
	for _, obj := range spawned.objs {
		remove, err := obj.Update(ctx)
		require.NoError(t, err)
		assert.True(t, remove)
		ReleaseObject(obj)
	}

	SpawnExplosion(0, 0, 3, 1, 1, nil)
}
