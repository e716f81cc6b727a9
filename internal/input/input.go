// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Key is a discrete key press. Printable keys are their lowercase byte;
// arrows and escape use the negative constants.
type Key rune

const (
	KeyUp Key = -(iota + 1)
	KeyDown
	KeyRight
	KeyLeft
	KeyEscape
)

const (
	KeySpace Key = ' '
	KeyEnter Key = '\r'
)

// Input represents the current frame's input state. The booleans report held
// keys; Keys lists the presses that arrived during this frame, in order.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Escape bool
	Number int
	Keys   []Key
	// Closed is set once the underlying reader has failed or hit EOF.
	Closed bool
}

// Pressed reports whether k was pressed during this frame.
func (in Input) Pressed(k Key) bool {
	for _, got := range in.Keys {
		if got == k {
			return true
		}
	}
	return false
}

// Digit returns the last digit key pressed during this frame, or -1.
func (in Input) Digit() int {
	for i := len(in.Keys) - 1; i >= 0; i-- {
		if k := in.Keys[i]; k >= '0' && k <= '9' {
			return int(k - '0')
		}
	}
	return -1
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit      time.Time
	left      time.Time
	right     time.Time
	up        time.Time
	down      time.Time
	space     time.Time
	enter     time.Time
	escape    time.Time
	number    time.Time
	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for holds.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	now    func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
		now:   time.Now,
	}
}

// ResetKeyInput forgets held keys so a press that changed screens does not
// carry over into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var keys []Key
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow sequence: ESC [ A..D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			var k Key
			switch buf[i+2] {
			case 'A':
				k, s.state.up = KeyUp, now
			case 'B':
				k, s.state.down = KeyDown, now
			case 'C':
				k, s.state.right = KeyRight, now
			case 'D':
				k, s.state.left = KeyLeft, now
			}
			if k != 0 {
				keys = append(keys, k)
				i += 2
				continue
			}
		}

		keys = append(keys, applyByteToState(&s.state, b, now))
	}

	in := Input{
		Quit:   now.Sub(s.state.quit) < keyHoldDuration,
		Left:   now.Sub(s.state.left) < keyHoldDuration,
		Right:  now.Sub(s.state.right) < keyHoldDuration,
		Up:     now.Sub(s.state.up) < keyHoldDuration,
		Down:   now.Sub(s.state.down) < keyHoldDuration,
		Space:  now.Sub(s.state.space) < keyHoldDuration,
		Enter:  now.Sub(s.state.enter) < keyHoldDuration,
		Escape: now.Sub(s.state.escape) < keyHoldDuration,
		Number: -1,
		Keys:   keys,
		Closed: s.closed,
	}
	if now.Sub(s.state.number) < keyHoldDuration {
		in.Number = s.state.numberVal
	}
	return in
}

// applyByteToState updates the hold timestamps for b and returns its Key.
func applyByteToState(state *keyState, b byte, now time.Time) Key {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	switch b {
	case 'q':
		state.quit = now
	case 'a', 'h':
		state.left = now
		return KeyLeft
	case 'd', 'l':
		state.right = now
		return KeyRight
	case 'w', 'k':
		state.up = now
		return KeyUp
	case 's', 'j':
		state.down = now
		return KeyDown
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
		return KeyEnter
	case '\x1b':
		state.escape = now
		return KeyEscape
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
	return Key(b)
}
