package loop

import (
	"fmt"

	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Menu button size in playfield units.
const (
	buttonWidth  = 64.0
	buttonHeight = 14.0
)

// dimAlpha is how bright the frozen playfield stays behind the game-over screen.
const dimAlpha = 0.35

// bannerBlinkFrequency is the NEW RECORD blink rate in Hz.
const bannerBlinkFrequency = 3.0

type buttonAction int

const (
	actionNone buttonAction = iota
	actionStart
	actionPlayAgain
	actionExit
)

// button is a clickable menu entry in playfield units.
type button struct {
	label  string
	rect   physics.Rect
	action buttonAction
}

func (s *Session) menuButtons() []button {
	c := physics.V(s.bounds.W/2, s.bounds.H*0.65)
	return []button{
		{label: "START", rect: physics.RectAround(c, buttonWidth, buttonHeight), action: actionStart},
	}
}

func (s *Session) gameOverButtons() []button {
	y := s.bounds.H * 0.72
	gap := buttonWidth * 0.6
	return []button{
		{label: "PLAY AGAIN", rect: physics.RectAround(physics.V(s.bounds.W/2-gap, y), buttonWidth, buttonHeight), action: actionPlayAgain},
		{label: "EXIT", rect: physics.RectAround(physics.V(s.bounds.W/2+gap, y), buttonWidth, buttonHeight), action: actionExit},
	}
}

// focusedButton returns the index of the button under the pointer, or 0.
func focusedButton(buttons []button, pointer physics.Vec2) int {
	for i, b := range buttons {
		if b.rect.Contains(pointer) {
			return i
		}
	}
	return 0
}

// pressed returns the action of the first clicked button, or of the focused
// button when confirm was pressed.
func (s *Session) pressed(buttons []button, in Controls) buttonAction {
	for _, click := range in.Clicks {
		for _, b := range buttons {
			if b.rect.Contains(click) {
				return b.action
			}
		}
	}
	if in.Confirm && len(buttons) > 0 {
		return buttons[focusedButton(buttons, in.Pointer)].action
	}
	return actionNone
}

// Draw renders the current frame.
func (s *Session) Draw(r Renderer) error {
	r.Begin()

	switch s.state {
	case GameStateMainMenu:
		s.drawMenu(r, 1)

	case GameStateTransitioning:
		t := 1.0
		if s.cfg.Session.Transition > 0 {
			t = min(s.transition/s.cfg.Session.Transition, 1)
		}
		s.drawMenu(r, 1-t)
		s.drawPlayfield(r, t)
		s.drawHUD(r, t)

	case GameStatePlaying:
		s.drawPlayfield(r, 1)
		s.drawHUD(r, 1)

	case GameStateGameOver:
		t := 1.0
		if s.cfg.Session.GameOverFade > 0 {
			t = min(s.fade/s.cfg.Session.GameOverFade, 1)
		}
		s.drawPlayfield(r, dimAlpha)
		s.drawGameOver(r, t)
	}

	return r.End()
}

func (s *Session) drawPlayfield(r Renderer, alpha float64) {
	for _, a := range s.field.Asteroids {
		r.DrawSprite(draw.Sprite{
			Kind:     draw.SpriteAsteroid,
			Pos:      point(a.Pos),
			Width:    a.Size,
			Height:   a.Size,
			Vertices: a.Vertices,
			Tint:     draw.Tint{Alpha: alpha},
		})
	}

	for _, p := range s.ship.Projectiles {
		r.DrawSprite(draw.Sprite{
			Kind:     draw.SpriteProjectile,
			Pos:      point(p.Pos),
			Rotation: p.Heading,
			Width:    p.Size,
			Height:   p.Size,
			Tint:     draw.Tint{Alpha: alpha},
		})
	}

	for _, p := range s.debris.Particles {
		a := alpha
		if p.Faded() {
			a *= 0.5
		}
		r.DrawSprite(draw.Sprite{Kind: draw.SpriteSpark, Pos: point(p.Pos), Tint: draw.Tint{Alpha: a}})
	}

	r.DrawSprite(draw.Sprite{
		Kind:     draw.SpriteShip,
		Pos:      point(s.ship.Pos),
		Rotation: s.ship.Heading,
		Width:    s.ship.Width,
		Height:   s.ship.Height,
		Tint:     draw.Tint{Alpha: alpha, Flash: s.ship.HitFlashing()},
	})
}

// drawHUD draws score, high score and lives along the top edge.
func (s *Session) drawHUD(r Renderer, alpha float64) {
	tint := draw.Tint{Alpha: alpha}
	top := 3.0

	r.DrawText(draw.Text{Pos: draw.Point{X: 3, Y: top}, Value: fmt.Sprintf("SCORE %d", s.score.Score), Tint: tint})
	r.DrawText(draw.Text{Pos: draw.Point{X: s.bounds.W / 2, Y: top}, Value: fmt.Sprintf("HIGH %d", s.score.HighScore), Align: draw.AlignCenter, Tint: tint})
	r.DrawText(draw.Text{Pos: draw.Point{X: s.bounds.W - 3, Y: top}, Value: fmt.Sprintf("LIVES %d", s.ship.DisplayLives()), Align: draw.AlignRight, Tint: tint})

	if s.score.NewRecord && object.ShouldRenderBlink(s.clock, bannerBlinkFrequency) {
		r.DrawText(draw.Text{
			Pos:    draw.Point{X: s.bounds.W / 2, Y: top + 8},
			Value:  "NEW RECORD",
			Align:  draw.AlignCenter,
			Tint:   tint,
			Accent: true,
			Bold:   true,
		})
	}
}

func (s *Session) drawMenu(r Renderer, alpha float64) {
	tint := draw.Tint{Alpha: alpha}
	cx, h := s.bounds.W/2, s.bounds.H

	r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.28}, Value: "S T A R F A L L", Align: draw.AlignCenter, Tint: tint, Bold: true})
	r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.38}, Value: "steer with the pointer, shoot the rocks", Align: draw.AlignCenter, Tint: tint})
	r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.48}, Value: fmt.Sprintf("HIGH SCORE %d", s.score.HighScore), Align: draw.AlignCenter, Tint: tint})

	s.drawButtons(r, s.menuButtons(), alpha)

	r.DrawText(draw.Text{
		Pos:   draw.Point{X: cx, Y: h - 6},
		Value: "mouse or arrows/WASD steer  ·  click/SPACE fire  ·  ENTER select  ·  Q quit",
		Align: draw.AlignCenter,
		Tint:  draw.Tint{Alpha: alpha * 0.6},
	})
}

func (s *Session) drawGameOver(r Renderer, alpha float64) {
	tint := draw.Tint{Alpha: alpha}
	cx, h := s.bounds.W/2, s.bounds.H

	r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.3}, Value: "G A M E   O V E R", Align: draw.AlignCenter, Tint: tint, Bold: true})
	r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.42}, Value: fmt.Sprintf("SCORE %d", s.score.Score), Align: draw.AlignCenter, Tint: tint})
	r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.5}, Value: fmt.Sprintf("HIGH SCORE %d", s.score.HighScore), Align: draw.AlignCenter, Tint: tint})
	if s.score.NewRecord {
		r.DrawText(draw.Text{Pos: draw.Point{X: cx, Y: h * 0.58}, Value: "NEW RECORD", Align: draw.AlignCenter, Tint: tint, Accent: true, Bold: true})
	}

	s.drawButtons(r, s.gameOverButtons(), alpha)
}

// drawButtons outlines each button and highlights the focused one.
func (s *Session) drawButtons(r Renderer, buttons []button, alpha float64) {
	focus := focusedButton(buttons, s.lastPointer)
	for i, b := range buttons {
		focused := i == focus
		r.DrawFrame(draw.Frame{
			Min:  draw.Point{X: b.rect.X, Y: b.rect.Y},
			Max:  draw.Point{X: b.rect.Right(), Y: b.rect.Bottom()},
			Tint: draw.Tint{Alpha: alpha, Flash: focused},
		})
		c := b.rect.Center()
		r.DrawText(draw.Text{
			Pos:    point(c),
			Value:  b.label,
			Align:  draw.AlignCenter,
			Tint:   draw.Tint{Alpha: alpha},
			Accent: focused,
		})
	}
}

func point(v physics.Vec2) draw.Point {
	return draw.Point{X: v.X, Y: v.Y}
}
