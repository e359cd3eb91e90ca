package window

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/matix/internal/core/engine"
)

var ErrUnknownKey = errors.New("unknown key name")

var keyNames = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"esc":    ebiten.KeyEscape,
	"escape": ebiten.KeyEscape,
	"space":  ebiten.KeySpace,
	"enter":  ebiten.KeyEnter,
	"tab":    ebiten.KeyTab,
	"shift":  ebiten.KeyShift,
	"ctrl":   ebiten.KeyControl,
	"left":   ebiten.KeyArrowLeft,
	"right":  ebiten.KeyArrowRight,
	"up":     ebiten.KeyArrowUp,
	"down":   ebiten.KeyArrowDown,
}

// ParseBindings reads an action -> key name table such as {"forward": "z"}.
func ParseBindings(table map[string]string) (map[ebiten.Key]engine.Action, error) {
	out := make(map[ebiten.Key]engine.Action, len(table))
	for name, key := range table {
		action, ok := engine.ParseAction(name)
		if !ok {
			return nil, fmt.Errorf("bind %q: unknown action", name)
		}
		k, ok := keyNames[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, fmt.Errorf("bind %q: %w %q", name, ErrUnknownKey, key)
		}
		out[k] = action
	}
	return out, nil
}

var _ engine.Input = (*Input)(nil)

// Input samples the keyboard and cursor once per Poll. Polling must happen
// on ebiten's update goroutine.
type Input struct {
	state    *engine.KeyState
	bindings map[ebiten.Key]engine.Action

	keyPressed func(ebiten.Key) bool
	cursor     func() (int, int)
	closing    func() bool

	last      [2]int
	hasCursor bool
}

func NewInput(bindings map[ebiten.Key]engine.Action) *Input {
	return &Input{
		state:      engine.NewKeyState(),
		bindings:   bindings,
		keyPressed: ebiten.IsKeyPressed,
		cursor:     ebiten.CursorPosition,
		closing:    ebiten.IsWindowBeingClosed,
	}
}

func (in *Input) Poll() {
	in.state.ReleaseAll()
	for k, a := range in.bindings {
		if in.keyPressed(k) {
			in.state.Press(a)
		}
	}

	x, y := in.cursor()
	if in.hasCursor {
		in.state.MoveMouse(float64(x-in.last[0]), float64(y-in.last[1]))
	}
	in.last = [2]int{x, y}
	in.hasCursor = true

	if in.closing() {
		in.state.RequestQuit()
	}
	in.state.Poll()
}

func (in *Input) Pressed(a engine.Action) bool { return in.state.Pressed(a) }
func (in *Input) MouseDelta() (dx, dy float64) { return in.state.MouseDelta() }
func (in *Input) Quit() bool                   { return in.state.Quit() }
