// Package loop runs the game: collision resolution, the session state
// machine, screen drawing and the real-time terminal loop.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/physics"
)

// maxFrameDelta caps how much wall time one frame may feed the simulation,
// so a stall does not trigger a burst of catch-up steps.
const maxFrameDelta = 250 * time.Millisecond

// maxStepsPerFrame bounds catch-up steps per rendered frame.
const maxStepsPerFrame = 5

// keyboardStep is how far the arrow keys move the pointer per frame, in playfield units.
const keyboardStep = 3.0

// Runner drives a Session in real time against a terminal: it samples input,
// steps the simulation on a fixed timestep and draws every frame.
type Runner struct {
	session      *Session
	renderer     *draw.TerminalRenderer
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	tick         time.Duration
	log          *log.Logger

	pointer     physics.Vec2
	prevEnter   bool
	inputClosed bool

	// Clicks and confirm sampled in a frame that ran no fixed step
	heldClicks  []physics.Vec2
	heldConfirm bool
}

// Options configures the runner.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	TickTime     time.Duration
	Logger       *log.Logger
}

// NewRunner creates a runner reading input from r and drawing to w.
func NewRunner(session *Session, r *bufio.Reader, w io.Writer, opts Options) *Runner {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	tick := opts.TickTime
	if tick <= 0 {
		tick = session.cfg.Timing.TickTime()
	}
	logger := opts.Logger
	if logger == nil {
		logger = session.log
	}

	bounds := session.Bounds()
	canvas := draw.NewScaledCanvas(int(bounds.W/2), int(bounds.H/4), bounds.W, bounds.H)

	rn := &Runner{
		session:      session,
		renderer:     draw.NewTerminalRenderer(w, canvas),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		tick:         tick,
		log:          logger,
		pointer:      bounds.Center(),
	}
	rn.updateScreen()
	return rn
}

// Run starts the loop. It blocks until the player exits, the input ends or
// ctx is cancelled, and restores the terminal before returning.
func (rn *Runner) Run(ctx context.Context) error {
	io.WriteString(rn.writer, input.MouseEnable)
	draw.HideCursor(rn.writer)
	draw.ClearScreen(rn.writer)
	defer func() {
		io.WriteString(rn.writer, input.MouseDisable)
		draw.ShowCursor(rn.writer)
		draw.ClearScreen(rn.writer)
	}()

	lastTime := time.Now()
	var acc time.Duration

	for !rn.session.Done() {
		if ctx.Err() != nil {
			rn.session.Step(0, Controls{Quit: true})
			rn.log.Debug("runner cancelled")
			return nil
		}

		frameStart := time.Now()
		acc += min(frameStart.Sub(lastTime), maxFrameDelta)
		lastTime = frameStart

		controls := rn.processInput()
		rn.updateScreen()

		acc = rn.advance(acc, controls)

		if err := rn.session.Draw(rn.renderer); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < rn.tick {
			select {
			case <-ctx.Done():
			case <-time.After(rn.tick - elapsed):
			}
		}
	}

	return nil
}

// advance runs the fixed steps that fit in acc and returns the time left over.
// Clicks and confirm go to the first step only; when no step runs they are
// held for the next frame.
func (rn *Runner) advance(acc time.Duration, controls Controls) time.Duration {
	controls.Clicks = append(rn.heldClicks, controls.Clicks...)
	controls.Confirm = controls.Confirm || rn.heldConfirm
	rn.heldClicks, rn.heldConfirm = nil, false

	steps := 0
	for ; acc >= rn.tick && steps < maxStepsPerFrame; steps++ {
		rn.session.Step(rn.tick, controls)
		controls.Clicks = nil
		controls.Confirm = false
		acc -= rn.tick
	}
	if steps == 0 {
		rn.heldClicks, rn.heldConfirm = controls.Clicks, controls.Confirm
	}

	if controls.Quit {
		rn.session.Step(0, controls)
	}
	return acc
}

// processInput reads pending input and maps it to playfield controls.
func (rn *Runner) processInput() Controls {
	in := input.ReadInput(rn.inputStream)
	if in.Closed && !rn.inputClosed {
		rn.inputClosed = true
		rn.log.Debug("input closed")
	}
	canvas := rn.renderer.Canvas()
	bounds := rn.session.Bounds()

	if in.MouseMoved {
		p := canvas.TerminalToLogical(in.Mouse.X, in.Mouse.Y)
		rn.pointer = physics.V(p.X, p.Y)
	}

	// Keyboard moves a virtual pointer
	if in.Left {
		rn.pointer.X -= keyboardStep
	}
	if in.Right {
		rn.pointer.X += keyboardStep
	}
	if in.Up {
		rn.pointer.Y -= keyboardStep
	}
	if in.Down {
		rn.pointer.Y += keyboardStep
	}
	rn.pointer.X = max(bounds.X, min(rn.pointer.X, bounds.Right()))
	rn.pointer.Y = max(bounds.Y, min(rn.pointer.Y, bounds.Bottom()))

	var clicks []physics.Vec2
	for _, c := range in.Clicks {
		p := canvas.TerminalToLogical(c.X, c.Y)
		clicks = append(clicks, physics.V(p.X, p.Y))
	}

	confirm := in.Enter && !rn.prevEnter
	rn.prevEnter = in.Enter

	return Controls{
		Pointer: rn.pointer,
		Fire:    in.Space || in.MouseHeld,
		Clicks:  clicks,
		Confirm: confirm,
		Quit:    in.Quit,
	}
}

// updateScreen re-fits the canvas to the terminal.
func (rn *Runner) updateScreen() {
	termWidth, termHeight, err := rn.termSizeFunc()
	if err != nil {
		return
	}
	rn.renderer.Layout(termWidth, termHeight)
}
