package term

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/matix/internal/core/engine"
)

var ErrUnknownKey = errors.New("unknown key name")

var namedKeys = map[string]tcell.Key{
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"enter":     tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
}

// Bindings maps terminal keys to actions. Runes are matched case-insensitively.
type Bindings struct {
	keys  map[tcell.Key]engine.Action
	runes map[rune]engine.Action
}

// ParseBindings reads an action -> key name table such as {"forward": "z", "quit": "esc"}.
// Single characters bind runes, "space" binds ' ', other names bind special keys.
func ParseBindings(table map[string]string) (*Bindings, error) {
	b := &Bindings{
		keys:  make(map[tcell.Key]engine.Action),
		runes: make(map[rune]engine.Action),
	}
	for name, key := range table {
		action, ok := engine.ParseAction(name)
		if !ok {
			return nil, fmt.Errorf("bind %q: unknown action", name)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		switch {
		case key == "space":
			b.runes[' '] = action
		case utf8.RuneCountInString(key) == 1:
			r, _ := utf8.DecodeRuneInString(key)
			b.runes[r] = action
		default:
			k, ok := namedKeys[key]
			if !ok {
				return nil, fmt.Errorf("bind %q: %w %q", name, ErrUnknownKey, key)
			}
			b.keys[k] = action
		}
	}
	return b, nil
}

// Action resolves a key event. Ctrl+C always quits.
func (b *Bindings) Action(ev *tcell.EventKey) (engine.Action, bool) {
	return b.lookup(ev.Key(), ev.Rune())
}

func (b *Bindings) lookup(key tcell.Key, r rune) (engine.Action, bool) {
	if key == tcell.KeyCtrlC {
		return engine.ActionQuit, true
	}
	if key == tcell.KeyRune {
		a, ok := b.runes[unicode.ToLower(r)]
		return a, ok
	}
	a, ok := b.keys[key]
	return a, ok
}
