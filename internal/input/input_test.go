package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestReadInputKeys(t *testing.T) {
	s := newStream()
	feed(s, "W\x1b[C 7\r\x1b")

	in := ReadInput(s)
	assert.Equal(t, []Key{KeyUp, KeyRight, KeySpace, '7', KeyEnter, KeyEscape}, in.Keys)
	assert.True(t, in.Up)
	assert.True(t, in.Right)
	assert.True(t, in.Space)
	assert.True(t, in.Enter)
	assert.True(t, in.Escape)
	assert.False(t, in.Left)
	assert.Equal(t, 7, in.Number)
	assert.Equal(t, 7, in.Digit())
	assert.True(t, in.Pressed(KeySpace))
	assert.False(t, in.Pressed('m'))
}

func TestHeldKeysExpire(t *testing.T) {
	now := time.Unix(100, 0)
	s := newStream()
	s.now = func() time.Time { return now }

	feed(s, "a")
	in := ReadInput(s)
	assert.True(t, in.Left)
	assert.True(t, in.Pressed(KeyLeft))

	now = now.Add(10 * time.Millisecond)
	in = ReadInput(s)
	assert.True(t, in.Left, "still held")
	assert.Empty(t, in.Keys, "but not pressed again")

	now = now.Add(keyHoldDuration)
	in = ReadInput(s)
	assert.False(t, in.Left)
}

func TestResetKeyInput(t *testing.T) {
	s := newStream()
	feed(s, "d5")
	ReadInput(s)
	ResetKeyInput(s)

	in := ReadInput(s)
	assert.False(t, in.Right)
	assert.Equal(t, -1, in.Number)
	assert.Equal(t, -1, in.Digit())
}

func TestStreamClosed(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))
	require.Eventually(t, func() bool {
		return ReadInput(s).Closed
	}, time.Second, time.Millisecond)
}
