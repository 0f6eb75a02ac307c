// Package input turns a raw terminal byte stream into per-frame held-key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so a held key is approximated by recent presses.
const keyHoldDuration = 120 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Fire    bool
	Start   bool
	Restart bool
	Quit    bool
	Pressed []byte
}

// keyState tracks the last time each binding was pressed.
type keyState struct {
	left    time.Time
	right   time.Time
	up      time.Time
	down    time.Time
	fire    time.Time
	start   time.Time
	restart time.Time
	quit    time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	now    func() time.Time
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
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
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

drain:
	for {
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

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if applyArrow(&s.state, buf[i+2], now) {
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }

	return Input{
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Up:      held(s.state.up),
		Down:    held(s.state.down),
		Fire:    held(s.state.fire),
		Start:   held(s.state.start),
		Restart: held(s.state.restart),
		Quit:    held(s.state.quit),
		Pressed: buf,
	}
}

// Closed returns true once the reader has ended and all input was drained.
func (s *Stream) Closed() bool {
	return s.closed
}

// Reset forgets all held keys, so a key used to switch screens does not leak
// into the next screen.
func (s *Stream) Reset() {
	s.state = keyState{}
}

func applyArrow(state *keyState, code byte, now time.Time) bool {
	switch code {
	case 'A':
		state.up = now
	case 'B':
		state.down = now
	case 'C':
		state.right = now
	case 'D':
		state.left = now
	default:
		return false
	}
	return true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C
		state.quit = now
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case 'r', 'R':
		state.restart = now
	case ' ':
		state.fire = now
		state.start = now
	case '\n', '\r':
		state.start = now
	}
}
