package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
)

// DefaultHold keeps an action pressed after its last key event. Terminals
// report presses and auto-repeat but never releases.
const DefaultHold = 150 * time.Millisecond

const eventBuffer = 100

var _ engine.Input = (*Input)(nil)

// Input turns terminal key and mouse events into engine actions.
type Input struct {
	state    *engine.KeyState
	bindings *Bindings
	log      log.Log

	events chan tcell.Event
	onEvent func(tcell.Event)

	hold      time.Duration
	now       func() time.Time
	lastPress map[engine.Action]time.Time

	mouse    [2]int
	hasMouse bool
}

func NewInput(b *Bindings, l log.Log) *Input {
	return &Input{
		state:     engine.NewKeyState(),
		bindings:  b,
		log:       l.Named("input"),
		events:    make(chan tcell.Event, eventBuffer),
		hold:      DefaultHold,
		now:       time.Now,
		lastPress: make(map[engine.Action]time.Time),
	}
}

// Listen forwards screen events to the input until the screen is finalized or
// done is closed. The returned channel is closed when forwarding stops.
func (in *Input) Listen(screen tcell.Screen, done <-chan struct{}) <-chan struct{} {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case in.events <- ev:
			case <-done:
				return
			}
		}
	}()
	return stopped
}

// Poll drains the pending events and refreshes the held actions.
func (in *Input) Poll() {
	for {
		select {
		case ev := <-in.events:
			in.Handle(ev)
		default:
			in.refresh()
			in.state.Poll()
			return
		}
	}
}

// Handle applies a single event. Unbound keys and other events are ignored.
func (in *Input) Handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		in.key(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		in.pointer(ev.Position())
	}
	if in.onEvent != nil {
		in.onEvent(ev)
	}
}

func (in *Input) key(k tcell.Key, r rune) {
	action, ok := in.bindings.lookup(k, r)
	if !ok {
		return
	}
	if action == engine.ActionQuit {
		in.log.Debug("quit key pressed")
		in.state.RequestQuit()
	}
	in.lastPress[action] = in.now()
}

// pointer turns absolute cell positions into motion. The first event only
// records where the pointer is.
func (in *Input) pointer(x, y int) {
	if in.hasMouse {
		in.state.MoveMouse(float64(x-in.mouse[0]), float64(y-in.mouse[1]))
	}
	in.mouse = [2]int{x, y}
	in.hasMouse = true
}

func (in *Input) refresh() {
	now := in.now()
	for _, a := range engine.Actions() {
		last, ok := in.lastPress[a]
		if ok && now.Sub(last) < in.hold {
			in.state.Press(a)
		} else {
			in.state.Release(a)
		}
	}
}

func (in *Input) Pressed(a engine.Action) bool { return in.state.Pressed(a) }
func (in *Input) MouseDelta() (dx, dy float64) { return in.state.MouseDelta() }
func (in *Input) Quit() bool                   { return in.state.Quit() }
func (in *Input) SetHold(d time.Duration)      { in.hold = d }
func (in *Input) OnEvent(f func(tcell.Event))  { in.onEvent = f }
