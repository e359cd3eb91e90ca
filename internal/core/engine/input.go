package engine

// Action is a logical control, independent of the key that triggers it.
type Action uint8

const (
	ActionForward Action = iota
	ActionBack
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionTurnLeft
	ActionTurnRight
	ActionLookUp
	ActionLookDown
	ActionQuit
	actionCount
)

var actionNames = [actionCount]string{
	"forward", "back", "left", "right", "up", "down",
	"turn_left", "turn_right", "look_up", "look_down", "quit",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "unknown"
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// ParseAction maps a configuration name back to its action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// Input is polled once per frame by the scene.
type Input interface {
	Poll()
	Pressed(a Action) bool
	// MouseDelta is the pointer motion since the previous Poll.
	MouseDelta() (dx, dy float64)
	Quit() bool
}

// KeyState is an Input whose state is set by hand. Backends translate their
// device events into it; tests drive it directly.
type KeyState struct {
	pressed [actionCount]bool
	dx, dy  float64
	pending [2]float64
	quit    bool
}

func NewKeyState() *KeyState { return &KeyState{} }

// Poll publishes the motion accumulated since the previous Poll.
func (k *KeyState) Poll() {
	k.dx, k.dy = k.pending[0], k.pending[1]
	k.pending = [2]float64{}
}

func (k *KeyState) Pressed(a Action) bool {
	return a < actionCount && k.pressed[a]
}

func (k *KeyState) MouseDelta() (float64, float64) { return k.dx, k.dy }

func (k *KeyState) Quit() bool { return k.quit || k.pressed[ActionQuit] }

func (k *KeyState) Press(a Action) {
	if a < actionCount {
		k.pressed[a] = true
	}
}

func (k *KeyState) Release(a Action) {
	if a < actionCount {
		k.pressed[a] = false
	}
}

// ReleaseAll clears every held action, for backends that only see key presses.
func (k *KeyState) ReleaseAll() {
	k.pressed = [actionCount]bool{}
}

// MoveMouse accumulates pointer motion for the next Poll.
func (k *KeyState) MoveMouse(dx, dy float64) {
	k.pending[0] += dx
	k.pending[1] += dy
}

func (k *KeyState) RequestQuit() { k.quit = true }
