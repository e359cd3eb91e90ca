package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/transform"
)

// PitchLimit bounds the camera pitch in degrees.
const PitchLimit = 89

// CameraValues is the view state shared with the renderer.
type CameraValues struct {
	FOV         float64 // degrees
	Near        float64
	Far         float64
	Sensitivity float64
	Speed       float64
	Aspect      float64

	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Forward  mgl64.Vec3
	Right    mgl64.Vec3
	Up       mgl64.Vec3
}

func DefaultCameraValues() CameraValues {
	return CameraValues{
		FOV:         50,
		Near:        0.1,
		Far:         100,
		Sensitivity: 0.05,
		Speed:       5,
		Aspect:      16.0 / 9.0,
		Yaw:         -90,
		Forward:     mgl64.Vec3{0, 0, -1},
		Right:       mgl64.Vec3{1, 0, 0},
		Up:          mgl64.Vec3{0, 1, 0},
	}
}

// View is the look-at matrix of the current values.
func (v CameraValues) View() mgl64.Mat4 {
	return mgl64.LookAtV(v.Position, v.Position.Add(v.Forward), v.Up)
}

func (v CameraValues) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(v.FOV), v.Aspect, v.Near, v.Far)
}

// Camera is a transform, usually a child of the player, that publishes its pose as CameraValues.
// Its Z rotation is the pitch: the direction formula treats Z as elevation.
type Camera struct {
	transform *transform.Transform
	values    CameraValues
}

func NewCamera(t *transform.Transform, values CameraValues) *Camera {
	return &Camera{transform: t, values: values}
}

func (c *Camera) Transform() *transform.Transform { return c.transform }

func (c *Camera) Values() CameraValues { return c.values }

func (c *Camera) SetAspect(aspect float64) { c.values.Aspect = aspect }

// Update pitches the camera by pitchDelta degrees and copies the pose into the values.
// The rotation always runs so the direction vectors follow the parent's yaw.
func (c *Camera) Update(pitchDelta float64) {
	local := c.transform.Rotation()
	parentPitch := c.transform.AbsoluteRotation().Z() - local.Z()
	target := clamp(local.Z()+pitchDelta, -PitchLimit-parentPitch, PitchLimit-parentPitch)
	c.transform.Rotate(mgl64.Vec3{0, 0, target - local.Z()})

	rot := c.transform.AbsoluteRotation()
	c.values.Position = c.transform.AbsolutePosition(true)
	c.values.Yaw = rot.X()
	c.values.Pitch = clamp(rot.Z(), -PitchLimit, PitchLimit)
	c.values.Forward = c.transform.Forward()
	c.values.Right = c.transform.Right()
	c.values.Up = c.transform.Up()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
