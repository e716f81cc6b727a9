package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)

	var first bytes.Buffer
	require.NoError(t, c.Render(&first))
	assert.Equal(t, 50, strings.Count(first.String(), "\033["), "first frame paints every cell")

	c.Clear()
	c.SetFloat(2, 0)
	var second bytes.Buffer
	require.NoError(t, c.Render(&second))
	assert.Equal(t, "\033[1;3H▀", second.String())

	var third bytes.Buffer
	require.NoError(t, c.Render(&third))
	assert.Empty(t, third.String())

	c.Clear()
	var fourth bytes.Buffer
	require.NoError(t, c.Render(&fourth))
	assert.Equal(t, "\033[1;3H ", fourth.String())
}

func TestMarkTextDirty(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	require.NoError(t, c.Render(&bytes.Buffer{}))

	c.MarkTextDirty(4, 2, 3)
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[2;4H \033[2;5H \033[2;6H ", buf.String())

	c.MarkTextDirty(0, 99, 5)
}

func TestHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(0, 0)
	c.SetFloat(1, 1)
	c.SetFloat(2, 0)
	c.SetFloat(2, 1)

	assert.Equal(t, BlockUpperHalf, c.cell(0, 0))
	assert.Equal(t, BlockLowerHalf, c.cell(1, 0))
	assert.Equal(t, BlockFull, c.cell(2, 0))
	assert.Equal(t, BlockEmpty, c.cell(3, 0))
}

func TestOffsetAppliedToRender(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	require.NoError(t, c.Render(&bytes.Buffer{}))
	c.SetOffset(5, 3)
	c.SetFloat(0, 0)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "\033[4;6H▀"))
}

func TestDrawCircle(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.DrawCircle(10, 10, 4, true)
	assert.True(t, c.pixels[10*20+10], "center")
	assert.False(t, c.pixels[0], "corner")

	c.Clear()
	c.DrawCircle(10, 10, 4, false)
	assert.False(t, c.pixels[10*20+10], "outline leaves center empty")
	assert.True(t, c.pixels[10*20+6])
	assert.True(t, c.pixels[10*20+14])
}

func TestDrawLine(t *testing.T) {
	c := NewScaledCanvas(5, 3, 5, 6)
	c.DrawLine(Point{X: 0, Y: 2}, Point{X: 4, Y: 2})
	for x := 0; x <= 4; x++ {
		assert.True(t, c.pixels[2*5+x], "x=%d", x)
	}
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(100, 50, 100, 100)
	col, row := c.LogicalToTerminal(50, 50)
	assert.Equal(t, 51, col)
	assert.Equal(t, 26, row)
}
