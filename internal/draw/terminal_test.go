package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(3, 4, "hi")
	assert.Empty(t, out.String(), "nothing is written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[5;5Hhi", out.String())

	out.Reset()
	cw.SetOffset(0, 0)
	cw.WriteBlock(1, 1, "a\nb")
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[1;1Ha\033[2;1Hb", out.String())
}

func TestChunkWriterLargeFrame(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	big := strings.Repeat("x", 3*maxChunkSize+7)
	cw.WriteString(big)
	require.NoError(t, cw.Flush())
	assert.Equal(t, big, out.String())
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                       string
		termW, termH               int
		wantW, wantH, wantC, wantR int
	}{
		{"fits", 80, 24, 80, 24, 0, 0},
		{"wide", 250, 24, 200, 24, 25, 0},
		{"tall", 80, 100, 80, 60, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, c, r := Fit(tt.termW, tt.termH, 200, 60)
			assert.Equal(t, []int{tt.wantW, tt.wantH, tt.wantC, tt.wantR}, []int{w, h, c, r})
		})
	}
}

func TestRenderBorder(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var buf bytes.Buffer
	c.RenderBorder(&buf)
	assert.Empty(t, buf.String())

	c.SetOffset(2, 2)
	c.RenderBorder(&buf)
	assert.Contains(t, buf.String(), "┌────┐")
	assert.Contains(t, buf.String(), "└────┘")
}
