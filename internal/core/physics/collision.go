package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/engine"
)

// edgeEpsilon absorbs float noise when comparing an edge with a cell face.
const edgeEpsilon = 1e-9

// hit is an obstacle found by a probe.
type hit struct {
	obstacle *Static
	x, z     int
}

// resolve clamps the movement of one dynamic body against the static grid.
//
// Each horizontal axis is probed on its own, X first. Z is probed with the
// movement X left behind, so diagonal motion into a corner keeps sliding along Z.
func (s *Scene) resolve(e *dynamicEntry, dt float64) {
	b := e.body
	if b.collision == nil {
		return
	}

	grid := s.grid.levels[b.Level]
	if grid == nil {
		return
	}

	pos := s.gridPosition(b.transform)
	w := b.collision.HalfWidth
	movement := b.Movement

	if movement.X() != 0 {
		future := pos.X() + movement.X()*dt
		if h, ok := probe(grid, engine.AxisX, pos, future, w); ok {
			movement[0] = 0
			s.blocked(e.name, engine.AxisX, pos, h)
		}
	}
	if movement.Z() != 0 {
		future := pos.Z() + movement.Z()*dt
		if h, ok := probe(grid, engine.AxisZ, pos, future, w); ok {
			movement[2] = 0
			s.blocked(e.name, engine.AxisZ, pos, h)
		}
	}

	b.Movement = movement
}

// probe looks for an obstacle in front of the body along axis.
//
// The rows are the cells the footprint covers on the other axis at the current
// position: one row, or two when it straddles a row boundary. In each row both
// edges are probed at their future position. A collidable static body there
// blocks only while the probed edge has not yet crossed the obstacle's near
// face, so a body already overlapping a cell is never held inside it.
func probe(grid *Grid, axis engine.Axis, pos mgl64.Vec3, future, w float64) (hit, bool) {
	along, across := 0, 2
	if axis == engine.AxisZ {
		along, across = 2, 0
	}

	first := cellOf(pos[across] - w + edgeEpsilon)
	last := cellOf(pos[across] + w - edgeEpsilon)

	for row := first; row <= last; row++ {
		for _, side := range [2]float64{1, -1} {
			col := cellOf(future + side*w)

			x, z := col, row
			if axis == engine.AxisZ {
				x, z = row, col
			}
			obstacle := grid.At(x, z)
			if obstacle == nil || obstacle.collision == nil {
				continue
			}

			edge := pos[along] + side*w
			face := float64(col) - side*0.5
			if side > 0 && edge <= face+edgeEpsilon || side < 0 && edge >= face-edgeEpsilon {
				return hit{obstacle: obstacle, x: x, z: z}, true
			}
		}
	}
	return hit{}, false
}

func (s *Scene) blocked(name string, axis engine.Axis, pos mgl64.Vec3, h hit) {
	s.ctx.Publish(engine.EventBlocked, s.name, engine.Blocked{
		Body:     name,
		Obstacle: s.owners[h.obstacle],
		Axis:     axis,
		Position: pos,
		Cell:     [2]int{h.x, h.z},
	})
}
