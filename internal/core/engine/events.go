package engine

import "github.com/go-gl/mathgl/mgl64"

// Event types published on Context.Bus.
const (
	EventBlocked       = "physics.blocked"
	EventSceneLoaded   = "scene.loaded"
	EventSceneSwitched = "scene.switched"
)

// Axis names a world axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// Blocked is the payload of EventBlocked: a dynamic body lost its velocity
// along Axis because the cell ahead holds Obstacle.
type Blocked struct {
	Body     string
	Obstacle string
	Axis     Axis
	Position mgl64.Vec3
	Cell     [2]int
}

// SceneLoaded is the payload of EventSceneLoaded.
type SceneLoaded struct {
	Scene   string
	MapPath string
	Objects int
	Skipped int
}
