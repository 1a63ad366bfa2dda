// Package input turns raw terminal bytes into per-frame key and mouse state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Space bool
	Enter bool

	// Mouse is the last reported pointer cell, valid once HasMouse is set.
	Mouse      Cell
	HasMouse   bool
	MouseMoved bool
	// MouseHeld is true while the left button is down.
	MouseHeld bool
	// Clicks lists left-button presses since the previous read, oldest first.
	Clicks []Cell

	// Closed is set once the underlying reader has ended.
	Closed bool
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	space time.Time
	enter time.Time
}

// Stream delivers input bytes via a channel and tracks key and mouse state
// across reads.
type Stream struct {
	ch    chan byte
	state keyState

	// pending holds an escape sequence split across reads.
	pending []byte

	mouse    Cell
	hasMouse bool
	leftHeld bool
	closed   bool
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 256)}
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

// ReadInput drains all available bytes from the stream (non-blocking).
// Keys stay pressed for a short hold window so terminal auto-repeat
// reads as a continuous press.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	buf := s.pending
	s.pending = nil

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

	var in Input
	prevMouse, hadMouse := s.mouse, s.hasMouse

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByteToState(&s.state, b, now)
			continue
		}

		rest := buf[i:]
		n, ev, incomplete := parseSGRMouse(rest)
		if n > 0 {
			s.applyMouse(ev, &in)
			i += n - 1
			continue
		}
		// A lone ESC or ESC [ may be the start of a sequence still in flight
		if incomplete || len(rest) == 1 || (len(rest) == 2 && rest[1] == '[') {
			s.pending = append([]byte(nil), rest...)
			break
		}

		// CSI sequence: ESC [ <code>
		if len(rest) >= 3 && rest[1] == '[' {
			switch rest[2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
		}
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	in.Quit = held(s.state.quit) || s.closed
	in.Left = held(s.state.left)
	in.Right = held(s.state.right)
	in.Up = held(s.state.up)
	in.Down = held(s.state.down)
	in.Space = held(s.state.space)
	in.Enter = held(s.state.enter)

	in.Mouse = s.mouse
	in.HasMouse = s.hasMouse
	in.MouseMoved = s.hasMouse && (!hadMouse || s.mouse != prevMouse)
	in.MouseHeld = s.leftHeld
	in.Closed = s.closed
	return in
}

func (s *Stream) applyMouse(ev mouseEvent, in *Input) {
	s.mouse = ev.cell
	s.hasMouse = true
	if ev.scroll {
		return
	}

	switch {
	case ev.release:
		if ev.button == buttonLeft || ev.button == buttonNone {
			s.leftHeld = false
		}
	case ev.motion:
		// Drag reports carry the held button; plain motion reports none.
		s.leftHeld = ev.button == buttonLeft
	case ev.button == buttonLeft:
		s.leftHeld = true
		in.Clicks = append(in.Clicks, ev.cell)
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	}
}
