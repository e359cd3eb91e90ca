package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/physics"
	"github.com/zeusync/matix/internal/core/transform"
)

// DefaultTurnSpeed is the keyboard turn rate in degrees per second.
const DefaultTurnSpeed = 90

// Player walks along its own direction vectors and carries the camera.
type Player struct {
	transform *transform.Transform
	camera    *Camera
	body      *physics.Dynamic

	Speed     float64
	TurnSpeed float64

	pitch float64
}

func newPlayer(t *transform.Transform, camera *Camera) *Player {
	p := &Player{
		transform: t,
		camera:    camera,
		Speed:     camera.values.Speed,
		TurnSpeed: DefaultTurnSpeed,
	}
	// Align the direction vectors with the initial rotation.
	t.Rotate(mgl64.Vec3{})
	return p
}

func (p *Player) Transform() *transform.Transform { return p.transform }
func (p *Player) Camera() *Camera                 { return p.camera }

// Body is the dynamic body driving the player, nil when it moves freely.
func (p *Player) Body() *physics.Dynamic { return p.body }

// HandleInput turns the frame's input into motion and yaw.
//
// A player with a dynamic body walks by setting the body's horizontal velocity
// so collision resolution sees the step; vertical motion is applied directly.
// Without a body every step is applied to the transform.
func (p *Player) HandleInput(in engine.Input, dt float64) {
	var walk mgl64.Vec3
	if in.Pressed(engine.ActionForward) {
		walk = walk.Add(p.transform.Forward())
	}
	if in.Pressed(engine.ActionBack) {
		walk = walk.Sub(p.transform.Forward())
	}
	if in.Pressed(engine.ActionRight) {
		walk = walk.Add(p.transform.Right())
	}
	if in.Pressed(engine.ActionLeft) {
		walk = walk.Sub(p.transform.Right())
	}

	var lift mgl64.Vec3
	if in.Pressed(engine.ActionUp) {
		lift = lift.Add(p.transform.Up())
	}
	if in.Pressed(engine.ActionDown) {
		lift = lift.Sub(p.transform.Up())
	}

	if p.body != nil {
		walk = walk.Mul(p.Speed)
		p.body.Movement[0] = walk.X()
		p.body.Movement[2] = walk.Z()
		p.transform.Move(lift.Mul(p.Speed * dt))
	} else {
		p.transform.Move(walk.Add(lift).Mul(p.Speed * dt))
	}

	dx, dy := in.MouseDelta()
	sensitivity := p.camera.values.Sensitivity
	yaw := dx * sensitivity
	p.pitch = -dy * sensitivity
	turn := p.TurnSpeed * dt
	if in.Pressed(engine.ActionTurnRight) {
		yaw += turn
	}
	if in.Pressed(engine.ActionTurnLeft) {
		yaw -= turn
	}
	if in.Pressed(engine.ActionLookUp) {
		p.pitch += turn
	}
	if in.Pressed(engine.ActionLookDown) {
		p.pitch -= turn
	}
	p.transform.Rotate(mgl64.Vec3{yaw, 0, 0})
}

// Update syncs the camera with the committed player pose.
func (p *Player) Update() {
	p.camera.Update(p.pitch)
	p.pitch = 0
}
