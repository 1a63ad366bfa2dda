package draw

import (
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SpriteKind selects the outline a Sprite is drawn with.
type SpriteKind int

const (
	SpriteShip SpriteKind = iota
	SpriteProjectile
	SpriteAsteroid
	SpriteSpark
)

// Tint modulates how a sprite or text is drawn.
type Tint struct {
	Alpha float64 // 0 invisible, 1 full brightness
	Flash bool    // draw filled / highlighted
}

// Opaque is the default full-brightness tint.
var Opaque = Tint{Alpha: 1}

// Sprite is one entity draw request in logical coordinates.
type Sprite struct {
	Kind     SpriteKind
	Pos      Point
	Rotation float64 // Degrees clockwise, 0 faces up
	Width    float64
	Height   float64
	// Vertices holds radius factors for asteroid outlines, evenly spaced around the centre.
	Vertices []float64
	Tint     Tint
}

// Align is the horizontal anchoring of a Text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Text is an overlay string anchored at a logical position.
type Text struct {
	Pos    Point
	Value  string
	Align  Align
	Tint   Tint
	Accent bool
	Bold   bool
}

// Frame is a rectangular outline, used for menu buttons.
type Frame struct {
	Min, Max Point
	Tint     Tint
}

// accentColor highlights the HUD banner and focused buttons.
const accentColor = lipgloss.Color("214")

// TerminalRenderer draws sprites onto a Canvas and overlays text with lipgloss styles.
// Begin starts a frame, End writes the changed cells and text in one flush.
type TerminalRenderer struct {
	canvas *Canvas
	cw     *ChunkWriter
	lg     *lipgloss.Renderer
	texts  []Text
}

// NewTerminalRenderer creates a renderer writing to w. Colours use the
// xterm-256 profile regardless of what w is, since w is usually a remote terminal.
func NewTerminalRenderer(w io.Writer, canvas *Canvas) *TerminalRenderer {
	lg := lipgloss.NewRenderer(w)
	lg.SetColorProfile(termenv.ANSI256)
	return NewTerminalRendererWith(w, canvas, lg)
}

// NewTerminalRendererWith creates a renderer using an explicit lipgloss renderer.
func NewTerminalRendererWith(w io.Writer, canvas *Canvas, lg *lipgloss.Renderer) *TerminalRenderer {
	canvas.SetRenderer(lg)
	return &TerminalRenderer{
		canvas: canvas,
		cw:     NewChunkWriter(w, canvas.OffsetCol(), canvas.OffsetRow()),
		lg:     lg,
	}
}

// Canvas returns the canvas being drawn to.
func (r *TerminalRenderer) Canvas() *Canvas {
	return r.canvas
}

// Layout resizes and recentres the canvas for a terminal of termW x termH cells.
// A size change clears the terminal so nothing is left outside the new area.
func (r *TerminalRenderer) Layout(termW, termH int) {
	w, h, col, row := Fit(termW, termH, r.canvas.LogicalWidth(), r.canvas.LogicalHeight())
	if w != r.canvas.TerminalWidth() || h != r.canvas.TerminalHeight() ||
		col != r.canvas.OffsetCol() || row != r.canvas.OffsetRow() {
		r.cw.WriteString("\033[H\033[2J")
	}
	r.canvas.Resize(w, h)
	r.canvas.SetOffset(col, row)
	r.cw.SetOffset(col, row)
}

// Begin starts a new frame.
func (r *TerminalRenderer) Begin() {
	r.canvas.Clear()
	r.texts = r.texts[:0]
}

// DrawSprite rasterises a sprite onto the canvas.
func (r *TerminalRenderer) DrawSprite(s Sprite) {
	level := LevelFor(s.Tint.Alpha)
	if level == 0 {
		return
	}

	switch s.Kind {
	case SpriteShip:
		hw, hh := s.Width/2, s.Height/2
		pts := r.canvas.BorrowPoints(4)
		pts[0] = rotate(Point{0, -hh}, s.Pos, s.Rotation)
		pts[1] = rotate(Point{hw, hh}, s.Pos, s.Rotation)
		pts[2] = rotate(Point{0, hh / 2}, s.Pos, s.Rotation)
		pts[3] = rotate(Point{-hw, hh}, s.Pos, s.Rotation)
		r.canvas.DrawPolygon(pts, s.Tint.Flash, level)

	case SpriteProjectile:
		hw, hh := s.Width/2, s.Height/2
		pts := r.canvas.BorrowPoints(4)
		pts[0] = Point{s.Pos.X - hw, s.Pos.Y - hh}
		pts[1] = Point{s.Pos.X + hw, s.Pos.Y - hh}
		pts[2] = Point{s.Pos.X + hw, s.Pos.Y + hh}
		pts[3] = Point{s.Pos.X - hw, s.Pos.Y + hh}
		r.canvas.DrawPolygon(pts, true, level)

	case SpriteAsteroid:
		n := len(s.Vertices)
		if n < 3 {
			return
		}
		radius := s.Width / 2
		pts := r.canvas.BorrowPoints(n)
		for i, f := range s.Vertices {
			a := (s.Rotation + float64(i)*360/float64(n)) * math.Pi / 180
			pts[i] = Point{
				X: s.Pos.X + math.Sin(a)*radius*f,
				Y: s.Pos.Y - math.Cos(a)*radius*f,
			}
		}
		r.canvas.DrawPolygon(pts, s.Tint.Flash, level)

	case SpriteSpark:
		r.canvas.SetFloat(s.Pos.X, s.Pos.Y, level)
	}
}

// DrawFrame draws a rectangle outline.
func (r *TerminalRenderer) DrawFrame(f Frame) {
	level := LevelFor(f.Tint.Alpha)
	if level == 0 {
		return
	}
	pts := r.canvas.BorrowPoints(4)
	pts[0] = f.Min
	pts[1] = Point{f.Max.X, f.Min.Y}
	pts[2] = f.Max
	pts[3] = Point{f.Min.X, f.Max.Y}
	r.canvas.DrawPolygon(pts, false, level)
}

// DrawText queues text to be drawn over the canvas at End.
func (r *TerminalRenderer) DrawText(t Text) {
	if t.Value == "" || LevelFor(t.Tint.Alpha) == 0 {
		return
	}
	r.texts = append(r.texts, t)
}

// End writes the frame to the terminal.
func (r *TerminalRenderer) End() error {
	r.canvas.Render(r.cw)
	r.canvas.RenderBorder(r.cw)

	for _, t := range r.texts {
		col, row, width := r.placeText(t)
		if width == 0 {
			continue
		}
		r.cw.WriteAt(col, row, r.textStyle(t).Render(t.Value))
		r.canvas.MarkTextDirty(col, row, width)
	}

	return r.cw.Flush()
}

// placeText returns the 1-based canvas cell of t and its width, or 0 width if it does not fit.
func (r *TerminalRenderer) placeText(t Text) (col, row, width int) {
	col, row = r.canvas.LogicalToTerminal(t.Pos.X, t.Pos.Y)
	width = lipgloss.Width(t.Value)

	switch t.Align {
	case AlignCenter:
		col -= width / 2
	case AlignRight:
		col -= width - 1
	}

	maxCol := r.canvas.TerminalWidth() - width + 1
	if row < 1 || row > r.canvas.TerminalHeight() || maxCol < 1 {
		return 0, 0, 0
	}
	return max(1, min(col, maxCol)), row, width
}

func (r *TerminalRenderer) textStyle(t Text) lipgloss.Style {
	level := int(LevelFor(t.Tint.Alpha)) - 1
	style := r.lg.NewStyle().Foreground(GrayColor(level)).Bold(t.Bold)
	if (t.Accent || t.Tint.Flash) && t.Tint.Alpha >= 1 {
		style = style.Foreground(accentColor)
	}
	return style
}

// rotate turns a local offset clockwise by deg (screen coordinates, y down) and moves it to origin.
func rotate(p, origin Point, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return Point{
		X: origin.X + p.X*cos - p.Y*sin,
		Y: origin.Y + p.X*sin + p.Y*cos,
	}
}
