package loop

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

const frame = time.Second / 60

// memStore is an in-memory score store that also records runs.
type memStore struct {
	high    int
	loadErr error
	saveErr error
	saves   []int
	runs    []int
}

func (m *memStore) Load() (int, error) {
	return m.high, m.loadErr
}

func (m *memStore) Save(score int) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.high = score
	m.saves = append(m.saves, score)
	return nil
}

func (m *memStore) RecordRun(score int) error {
	m.runs = append(m.runs, score)
	return nil
}

// recordingRenderer keeps the draw requests of the last frame.
type recordingRenderer struct {
	sprites []draw.Sprite
	texts   []draw.Text
	frames  []draw.Frame
	ended   int
}

func (r *recordingRenderer) Begin() {
	r.sprites = r.sprites[:0]
	r.texts = r.texts[:0]
	r.frames = r.frames[:0]
}

func (r *recordingRenderer) DrawSprite(s draw.Sprite) { r.sprites = append(r.sprites, s) }
func (r *recordingRenderer) DrawText(t draw.Text)     { r.texts = append(r.texts, t) }
func (r *recordingRenderer) DrawFrame(f draw.Frame)   { r.frames = append(r.frames, f) }

func (r *recordingRenderer) End() error {
	r.ended++
	return nil
}

func (r *recordingRenderer) hasText(value string) bool {
	return slices.ContainsFunc(r.texts, func(t draw.Text) bool { return t.Value == value })
}

func (r *recordingRenderer) sprite(kind draw.SpriteKind) (draw.Sprite, bool) {
	for _, s := range r.sprites {
		if s.Kind == kind {
			return s, true
		}
	}
	return draw.Sprite{}, false
}

func newTestSession(t *testing.T, store *memStore) *Session {
	t.Helper()
	s, err := NewSession(config.Default(), store, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

// startPlaying presses START and waits out the transition.
func startPlaying(t *testing.T, s *Session, pointer physics.Vec2) {
	t.Helper()
	s.Step(frame, Controls{Pointer: pointer, Confirm: true})
	for i := 0; i < 400 && s.State() != GameStatePlaying; i++ {
		s.Step(frame, Controls{Pointer: pointer})
	}
	if s.State() != GameStatePlaying {
		t.Fatalf("State() = %v, expected %v", s.State(), GameStatePlaying)
	}
}

// waitFade steps through the game-over fade.
func waitFade(s *Session, pointer physics.Vec2) {
	for i := 0; i < 90; i++ {
		s.Step(frame, Controls{Pointer: pointer})
	}
}

func TestNewSessionLoadsHighScore(t *testing.T) {
	s := newTestSession(t, &memStore{high: 42})
	if s.State() != GameStateMainMenu {
		t.Errorf("State() = %v, expected %v", s.State(), GameStateMainMenu)
	}
	if got := s.Score().HighScore; got != 42 {
		t.Errorf("HighScore = %d, expected 42", got)
	}
}

func TestNewSessionErrors(t *testing.T) {
	loadErr := errors.New("disk on fire")
	if _, err := NewSession(config.Default(), &memStore{loadErr: loadErr}, rand.New(rand.NewSource(1)), nil); !errors.Is(err, loadErr) {
		t.Errorf("NewSession() error = %v, expected %v", err, loadErr)
	}

	cfg := config.Default()
	cfg.Ship.Lives = 0
	if _, err := NewSession(cfg, &memStore{}, rand.New(rand.NewSource(1)), nil); err == nil {
		t.Error("NewSession() error = nil, expected a validation error")
	}
}

func TestMenuToPlayingTiming(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)

	s.Step(frame, Controls{Pointer: pointer})
	if s.State() != GameStateMainMenu {
		t.Fatalf("State() = %v, expected %v without input", s.State(), GameStateMainMenu)
	}

	s.Step(frame, Controls{Pointer: pointer, Confirm: true})
	if s.State() != GameStateTransitioning {
		t.Fatalf("State() = %v, expected %v", s.State(), GameStateTransitioning)
	}

	for i := 0; i < 179; i++ {
		s.Step(frame, Controls{Pointer: pointer})
	}
	if s.State() != GameStateTransitioning {
		t.Fatalf("State() = %v after 179 frames, expected %v", s.State(), GameStateTransitioning)
	}
	s.Step(frame, Controls{Pointer: pointer})
	if s.State() != GameStatePlaying {
		t.Errorf("State() = %v after 180 frames, expected %v", s.State(), GameStatePlaying)
	}
}

func TestMenuStartByClick(t *testing.T) {
	s := newTestSession(t, &memStore{})
	start := s.menuButtons()[0].rect.Center()

	s.Step(frame, Controls{Pointer: physics.V(10, 10), Clicks: []physics.Vec2{physics.V(10, 10)}})
	if s.State() != GameStateMainMenu {
		t.Fatalf("State() = %v, expected %v after a click outside", s.State(), GameStateMainMenu)
	}
	s.Step(frame, Controls{Pointer: start, Clicks: []physics.Vec2{start}})
	if s.State() != GameStateTransitioning {
		t.Errorf("State() = %v, expected %v", s.State(), GameStateTransitioning)
	}
}

func TestTransitionDoesNotSimulate(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)

	s.Step(frame, Controls{Pointer: pointer, Confirm: true})
	s.field.Place(pointer, physics.Vec2{}, object.TierLarge)
	for i := 0; i < 60; i++ {
		s.Step(frame, Controls{Pointer: pointer, Fire: true})
	}

	if s.ship.Lives != 3 {
		t.Errorf("Lives = %d, expected 3", s.ship.Lives)
	}
	if s.field.Len() != 1 {
		t.Errorf("field.Len() = %d, expected 1", s.field.Len())
	}
	if len(s.ship.Projectiles) != 0 {
		t.Errorf("len(Projectiles) = %d, expected 0", len(s.ship.Projectiles))
	}
	if s.ship.Pos != pointer {
		t.Errorf("ship.Pos = %v, expected %v", s.ship.Pos, pointer)
	}
}

func TestProjectileDowngradesAsteroid(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, store)
	pointer := physics.V(120, 140)
	startPlaying(t, s, pointer)

	s.field.Place(physics.V(120, 110), physics.Vec2{}, object.TierLarge)
	s.Step(frame, Controls{Pointer: pointer, Fire: true})
	for i := 0; i < 20; i++ {
		s.Step(frame, Controls{Pointer: pointer})
	}

	if s.field.Len() != 1 {
		t.Fatalf("field.Len() = %d, expected 1", s.field.Len())
	}
	if got := s.field.Asteroids[0].Tier; got != object.TierMedium {
		t.Errorf("Tier = %v, expected %v", got, object.TierMedium)
	}
	if got := s.Score().Score; got != 3 {
		t.Errorf("Score = %d, expected 3", got)
	}
	if len(s.ship.Projectiles) != 0 {
		t.Errorf("len(Projectiles) = %d, expected 0", len(s.ship.Projectiles))
	}
	if !slices.Equal(store.saves, []int{3}) {
		t.Errorf("saves = %v, expected [3]", store.saves)
	}
}

func TestLastLifeEndsGame(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, store)
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	s.ship.Lives = 1
	s.field.Place(pointer, physics.Vec2{}, object.TierLarge)
	s.Step(frame, Controls{Pointer: pointer})

	if s.State() != GameStateGameOver {
		t.Errorf("State() = %v, expected %v", s.State(), GameStateGameOver)
	}
	if got := s.ship.DisplayLives(); got != 0 {
		t.Errorf("DisplayLives() = %d, expected 0", got)
	}
	if s.field.Len() != 0 {
		t.Errorf("field.Len() = %d, expected 0", s.field.Len())
	}
	if !slices.Equal(store.runs, []int{0}) {
		t.Errorf("runs = %v, expected [0]", store.runs)
	}
}

func TestGameOverOnlyAtZeroLives(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	for hit := 1; hit <= 3; hit++ {
		s.field.Place(pointer, physics.Vec2{}, object.TierSmall)
		s.Step(frame, Controls{Pointer: pointer})

		want := GameStatePlaying
		if hit == 3 {
			want = GameStateGameOver
		}
		if s.State() != want {
			t.Errorf("hit %d: State() = %v, expected %v", hit, s.State(), want)
		}
		if s.ship.Lives != 3-hit {
			t.Errorf("hit %d: Lives = %d, expected %d", hit, s.ship.Lives, 3-hit)
		}
	}
}

func TestHighScorePersistedOnlyWhenBeaten(t *testing.T) {
	store := &memStore{high: 5}
	s := newTestSession(t, store)
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	tests := []struct {
		score     int
		wantHigh  int
		wantSaves []int
	}{
		{score: 4, wantHigh: 5, wantSaves: nil},
		{score: 5, wantHigh: 5, wantSaves: nil},
		{score: 6, wantHigh: 6, wantSaves: []int{6}},
		{score: 6, wantHigh: 6, wantSaves: []int{6}},
		{score: 8, wantHigh: 8, wantSaves: []int{6, 8}},
	}

	for _, tt := range tests {
		s.score.Score = tt.score
		s.Step(frame, Controls{Pointer: pointer})

		if got := s.Score().HighScore; got != tt.wantHigh {
			t.Errorf("score %d: HighScore = %d, expected %d", tt.score, got, tt.wantHigh)
		}
		if !slices.Equal(store.saves, tt.wantSaves) {
			t.Errorf("score %d: saves = %v, expected %v", tt.score, store.saves, tt.wantSaves)
		}
	}
	if !s.Score().NewRecord {
		t.Error("NewRecord = false, expected true")
	}

	s.Restart()
	if got := s.Score().HighScore; got != 8 {
		t.Errorf("HighScore after Restart = %d, expected 8", got)
	}
	if s.Score().NewRecord {
		t.Error("NewRecord after Restart = true, expected false")
	}
}

func TestFailedSaveIsRetried(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	s := newTestSession(t, store)
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	s.score.Score = 4
	s.Step(frame, Controls{Pointer: pointer})
	if len(store.saves) != 0 {
		t.Fatalf("saves = %v, expected none while the store fails", store.saves)
	}
	if got := s.Score().HighScore; got != 4 {
		t.Errorf("HighScore = %d, expected 4", got)
	}

	store.saveErr = nil
	s.Step(0, Controls{Quit: true})
	if !s.Done() {
		t.Error("Done() = false, expected true")
	}
	if !slices.Equal(store.saves, []int{4}) {
		t.Errorf("saves = %v, expected [4]", store.saves)
	}
}

func TestRestartFromGameOver(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	s.field.Place(physics.V(30, 30), physics.Vec2{}, object.TierLarge)
	s.score.Add(4)
	s.ship.Lives = 1
	s.field.Place(pointer, physics.Vec2{}, object.TierLarge)
	s.Step(frame, Controls{Pointer: pointer, Fire: true})
	if s.State() != GameStateGameOver {
		t.Fatalf("State() = %v, expected %v", s.State(), GameStateGameOver)
	}

	// Buttons are inert until the overlay has faded in
	s.Step(frame, Controls{Pointer: pointer, Confirm: true})
	if s.State() != GameStateGameOver {
		t.Fatalf("State() = %v, expected %v during the fade", s.State(), GameStateGameOver)
	}

	waitFade(s, pointer)
	s.Step(frame, Controls{Pointer: pointer, Confirm: true})

	if s.State() != GameStatePlaying {
		t.Fatalf("State() = %v, expected %v", s.State(), GameStatePlaying)
	}
	if got := s.Score().Score; got != 0 {
		t.Errorf("Score = %d, expected 0", got)
	}
	if got := s.Score().HighScore; got != 4 {
		t.Errorf("HighScore = %d, expected 4", got)
	}
	if s.ship.Lives != 3 {
		t.Errorf("Lives = %d, expected 3", s.ship.Lives)
	}
	if s.field.Len() != 0 {
		t.Errorf("field.Len() = %d, expected 0", s.field.Len())
	}
	if len(s.ship.Projectiles) != 0 {
		t.Errorf("len(Projectiles) = %d, expected 0", len(s.ship.Projectiles))
	}
}

func TestExitFromGameOver(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	s.ship.Lives = 1
	s.field.Place(pointer, physics.Vec2{}, object.TierLarge)
	s.Step(frame, Controls{Pointer: pointer})
	waitFade(s, pointer)

	exit := s.gameOverButtons()[1].rect.Center()
	s.Step(frame, Controls{Pointer: exit, Clicks: []physics.Vec2{exit}})
	if !s.Done() {
		t.Error("Done() = false, expected true")
	}
}

func TestQuitFromAnyState(t *testing.T) {
	s := newTestSession(t, &memStore{})
	s.Step(0, Controls{Quit: true})
	if !s.Done() {
		t.Error("Done() = false, expected true")
	}

	// Steps after exit are ignored
	s.Step(frame, Controls{Confirm: true})
	if s.State() != GameStateMainMenu {
		t.Errorf("State() = %v, expected %v", s.State(), GameStateMainMenu)
	}
}

func TestDrawMenu(t *testing.T) {
	s := newTestSession(t, &memStore{high: 7})
	r := &recordingRenderer{}
	if err := s.Draw(r); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	for _, want := range []string{"S T A R F A L L", "START", "HIGH SCORE 7"} {
		if !r.hasText(want) {
			t.Errorf("menu is missing %q", want)
		}
	}
	if len(r.frames) != 1 {
		t.Errorf("len(frames) = %d, expected 1", len(r.frames))
	}
	if r.ended != 1 {
		t.Errorf("End() called %d times, expected 1", r.ended)
	}
}

func TestDrawHUDClampsLives(t *testing.T) {
	s := newTestSession(t, &memStore{})
	startPlaying(t, s, physics.V(120, 80))

	s.ship.Lives = -2
	r := &recordingRenderer{}
	s.Draw(r)

	if !r.hasText("LIVES 0") {
		t.Errorf("HUD texts = %v, expected LIVES 0", r.texts)
	}
}

func TestDrawNewRecordBanner(t *testing.T) {
	s := newTestSession(t, &memStore{})
	startPlaying(t, s, physics.V(120, 80))
	r := &recordingRenderer{}

	s.score.NewRecord = true
	s.clock = 0.4
	s.Draw(r)
	if !r.hasText("NEW RECORD") {
		t.Error("NEW RECORD hidden, expected visible in the on phase")
	}

	s.clock = 0.7
	s.Draw(r)
	if r.hasText("NEW RECORD") {
		t.Error("NEW RECORD visible, expected hidden in the off phase")
	}
}

func TestDrawShipFlashesWhenHit(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)
	r := &recordingRenderer{}

	s.field.Place(pointer, physics.Vec2{}, object.TierSmall)
	s.Step(frame, Controls{Pointer: pointer})
	s.Draw(r)

	ship, ok := r.sprite(draw.SpriteShip)
	if !ok {
		t.Fatal("ship sprite not drawn")
	}
	if !ship.Tint.Flash {
		t.Error("ship Tint.Flash = false, expected true right after a hit")
	}

	for i := 0; i < 10; i++ {
		s.Step(frame, Controls{Pointer: pointer})
	}
	s.Draw(r)
	ship, _ = r.sprite(draw.SpriteShip)
	if ship.Tint.Flash {
		t.Error("ship Tint.Flash = true, expected false once the flash expired")
	}
}

func TestDrawGameOverDimsPlayfield(t *testing.T) {
	s := newTestSession(t, &memStore{})
	pointer := physics.V(120, 80)
	startPlaying(t, s, pointer)

	s.ship.Lives = 1
	s.field.Place(pointer, physics.Vec2{}, object.TierLarge)
	s.Step(frame, Controls{Pointer: pointer})
	r := &recordingRenderer{}
	s.Draw(r)

	ship, ok := r.sprite(draw.SpriteShip)
	if !ok {
		t.Fatal("ship sprite not drawn")
	}
	if ship.Tint.Alpha != dimAlpha {
		t.Errorf("ship Tint.Alpha = %v, expected %v", ship.Tint.Alpha, dimAlpha)
	}
	for _, want := range []string{"G A M E   O V E R", "PLAY AGAIN", "EXIT"} {
		if !r.hasText(want) {
			t.Errorf("game over screen is missing %q", want)
		}
	}
}

func TestGameStateString(t *testing.T) {
	tests := []struct {
		state GameState
		want  string
	}{
		{GameStateMainMenu, "main-menu"},
		{GameStateTransitioning, "transitioning"},
		{GameStatePlaying, "playing"},
		{GameStateGameOver, "game-over"},
		{GameState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("GameState(%d).String() = %q, expected %q", tt.state, got, tt.want)
		}
	}
}
