package transform

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNotLive = errors.New("transform is not live")
	ErrCycle   = errors.New("parent link would create a cycle")
)

var (
	initialForward = mgl64.Vec3{0, 0, -1}
	initialRight   = mgl64.Vec3{1, 0, 0}
	initialUp      = mgl64.Vec3{0, 1, 0}
	worldUp        = mgl64.Vec3{0, 1, 0}
)

// Transform is a node of the scene hierarchy: local position, Euler rotation in
// degrees and scale, relative to an optional parent.
//
// The forward, right and up vectors are only recomputed by Rotate. Move and the
// setters leave them untouched, and camera and player code relies on that.
type Transform struct {
	arena  *Arena
	id     ID
	parent ID

	position mgl64.Vec3
	rotation mgl64.Vec3
	scale    mgl64.Vec3

	// fixed[i] true blocks Move on axis i.
	fixed [3]bool

	forward mgl64.Vec3
	right   mgl64.Vec3
	up      mgl64.Vec3
}

func (t *Transform) ID() ID { return t.id }

// ParentID returns the stored parent link, which may be stale.
func (t *Transform) ParentID() ID { return t.parent }

// Parent resolves the parent link. A destroyed parent resolves to false.
func (t *Transform) Parent() (*Transform, bool) {
	if t.arena == nil {
		return nil, false
	}
	return t.arena.Get(t.parent)
}

// SetParent re-parents the transform, keeping its local values.
func (t *Transform) SetParent(parent ID) error {
	if t.arena == nil {
		return ErrNotLive
	}
	if parent == None {
		t.parent = None
		return nil
	}
	if _, ok := t.arena.Get(parent); !ok {
		return ErrNotLive
	}
	if parent == t.id || t.arena.isAncestor(t.id, parent) {
		return ErrCycle
	}
	t.parent = parent
	return nil
}

func (t *Transform) Position() mgl64.Vec3     { return t.position }
func (t *Transform) SetPosition(p mgl64.Vec3) { t.position = p }
func (t *Transform) Rotation() mgl64.Vec3     { return t.rotation }
func (t *Transform) SetRotation(r mgl64.Vec3) { t.rotation = r }
func (t *Transform) Scale() mgl64.Vec3        { return t.scale }
func (t *Transform) SetScale(s mgl64.Vec3)    { t.scale = s }
func (t *Transform) Fixed() [3]bool           { return t.fixed }
func (t *Transform) SetFixed(fixed [3]bool)   { t.fixed = fixed }
func (t *Transform) Forward() mgl64.Vec3      { return t.forward }
func (t *Transform) Right() mgl64.Vec3        { return t.right }
func (t *Transform) Up() mgl64.Vec3           { return t.up }

// ScaledPosition is the local position multiplied component-wise by the
// immediate parent's local scale. Grand-parents' scales are not applied.
func (t *Transform) ScaledPosition() mgl64.Vec3 {
	p, ok := t.Parent()
	if !ok {
		return t.position
	}
	return mulVec(t.position, p.scale)
}

// AbsolutePosition adds every ancestor's absolute position to the local one.
// With scaled set, each level's local position is first multiplied by its own
// immediate parent's scale.
func (t *Transform) AbsolutePosition(scaled bool) mgl64.Vec3 {
	position := t.position
	if scaled {
		position = t.ScaledPosition()
	}
	if p, ok := t.Parent(); ok {
		position = position.Add(p.AbsolutePosition(scaled))
	}
	return position
}

// AbsoluteRotation is the component-wise sum of the rotations along the chain.
func (t *Transform) AbsoluteRotation() mgl64.Vec3 {
	rotation := t.rotation
	if p, ok := t.Parent(); ok {
		rotation = rotation.Add(p.AbsoluteRotation())
	}
	return rotation
}

// AbsoluteScale is the component-wise product of the scales along the chain.
func (t *Transform) AbsoluteScale() mgl64.Vec3 {
	scale := t.scale
	if p, ok := t.Parent(); ok {
		scale = mulVec(scale, p.AbsoluteScale())
	}
	return scale
}

// Move translates the transform, dropping every component whose fixed flag is set.
func (t *Transform) Move(delta mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		if t.fixed[i] {
			delta[i] = 0
		}
	}
	t.position = t.position.Add(delta)
}

// Rotate adds delta degrees to the local rotation and refreshes the direction vectors.
func (t *Transform) Rotate(delta mgl64.Vec3) {
	t.rotation = t.rotation.Add(delta)
	t.updateVectors()
}

// updateVectors derives the basis from the absolute rotation: X is yaw, Z is roll.
func (t *Transform) updateVectors() {
	rot := t.AbsoluteRotation()
	yaw := mgl64.DegToRad(rot.X())
	roll := mgl64.DegToRad(rot.Z())

	t.forward = normalize(mgl64.Vec3{
		math.Cos(yaw) * math.Cos(roll),
		math.Sin(roll),
		math.Sin(yaw) * math.Cos(roll),
	})
	t.right = normalize(t.forward.Cross(worldUp))
	t.up = normalize(t.right.Cross(t.forward))
}

// ModelMatrix is translate(scaled absolute position) * rotX * rotY * rotZ * scale(absolute scale),
// using the local rotation.
func (t *Transform) ModelMatrix() mgl64.Mat4 {
	pos := t.AbsolutePosition(true)
	scale := t.AbsoluteScale()

	m := mgl64.Translate3D(pos.X(), pos.Y(), pos.Z())
	m = m.Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.rotation.X())))
	m = m.Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.rotation.Y())))
	m = m.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(t.rotation.Z())))
	return m.Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// normalize leaves a zero vector unchanged, e.g. the cross product when looking straight up.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}
