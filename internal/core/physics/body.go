package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/transform"
)

type Kind uint8

const (
	KindStatic Kind = iota
	KindDynamic
)

func (k Kind) String() string {
	if k == KindDynamic {
		return "dynamic"
	}
	return "static"
}

// Body is the part of a physics object shared by both variants.
type Body interface {
	Kind() Kind
	Transform() *transform.Transform
	// Collision returns the footprint, nil when the body does not collide.
	Collision() *Square
}

type body struct {
	transform *transform.Transform
	collision *Square
}

func (b *body) Transform() *transform.Transform { return b.transform }
func (b *body) Collision() *Square              { return b.collision }

// Static never moves and occupies at most one grid cell.
type Static struct {
	body
	// Resistance is reserved for future use and always -1.
	Resistance float64
}

func NewStaticBody(t *transform.Transform, collision *Square) *Static {
	return &Static{body: body{transform: t, collision: collision}, Resistance: -1}
}

func (*Static) Kind() Kind { return KindStatic }

// Dynamic is moved by its Movement, in units per second, and pulled by gravity.
type Dynamic struct {
	body
	Weight       float64
	GravityForce float64
	Movement     mgl64.Vec3
	// Level selects the grid level collisions are resolved against.
	Level int
}

// NewDynamicBody creates a dynamic body. A non-positive weight becomes 1.
func NewDynamicBody(t *transform.Transform, collision *Square, weight float64) *Dynamic {
	if weight <= 0 {
		weight = 1
	}
	return &Dynamic{
		body:         body{transform: t, collision: collision},
		Weight:       weight,
		GravityForce: 1,
	}
}

func (*Dynamic) Kind() Kind { return KindDynamic }

// ApplyForce adds force/weight to the movement along the normalized direction.
// A zero direction does nothing.
func (d *Dynamic) ApplyForce(direction mgl64.Vec3, force float64) {
	l := direction.Len()
	if l == 0 {
		return
	}
	d.Movement = d.Movement.Add(direction.Mul(force / (l * d.Weight)))
}

// ApplyGravity applies GravityForce * gravity * dt * Weight along +Y, so the
// resulting change of movement does not depend on the weight.
func (d *Dynamic) ApplyGravity(gravity, dt float64) {
	d.ApplyForce(mgl64.Vec3{0, 1, 0}, d.GravityForce*gravity*dt*d.Weight)
}

// Integrate commits the movement of one frame to the transform.
func (d *Dynamic) Integrate(dt float64) {
	d.transform.Move(d.Movement.Mul(dt))
}
