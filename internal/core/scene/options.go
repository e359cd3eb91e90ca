package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/physics"
	"github.com/zeusync/matix/internal/core/transform"
)

// DefaultMultiplier converts tile coordinates into world units.
const DefaultMultiplier = 2

// Config holds the scene settings applied by Option.
type Config struct {
	Graphic    bool
	Physic     bool
	Width      int
	Height     int
	Multiplier float64
}

func DefaultConfig() Config {
	return Config{
		Graphic:    true,
		Physic:     true,
		Width:      25,
		Height:     25,
		Multiplier: DefaultMultiplier,
	}
}

type Option func(*Config)

// WithGraphic enables or disables renderer registration for the whole scene.
func WithGraphic(enabled bool) Option {
	return func(c *Config) { c.Graphic = enabled }
}

// WithPhysic enables or disables the physics scene.
func WithPhysic(enabled bool) Option {
	return func(c *Config) { c.Physic = enabled }
}

func WithSize(width, height int) Option {
	return func(c *Config) { c.Width, c.Height = width, height }
}

func WithMultiplier(m float64) Option {
	return func(c *Config) { c.Multiplier = m }
}

// ObjectConfig describes one object created by Scene.NewObject.
type ObjectConfig struct {
	Parent   *transform.Transform
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
	Fixed    [3]bool
	Texture  string

	Graphic bool
	Physic  bool
	Static  bool
	Weight  float64

	// Collision attaches a square footprint of CollisionWidth half-width.
	Collision      bool
	CollisionWidth float64
}

func defaultObjectConfig() ObjectConfig {
	return ObjectConfig{
		Scale:          mgl64.Vec3{1, 1, 1},
		Graphic:        true,
		Physic:         true,
		Static:         true,
		Weight:         1,
		CollisionWidth: physics.DefaultHalfWidth,
	}
}

type ObjectOption func(*ObjectConfig)

// WithParent attaches the object under p instead of the scene root.
func WithParent(p *transform.Transform) ObjectOption {
	return func(c *ObjectConfig) { c.Parent = p }
}

func WithPosition(p mgl64.Vec3) ObjectOption {
	return func(c *ObjectConfig) { c.Position = p }
}

func WithRotation(r mgl64.Vec3) ObjectOption {
	return func(c *ObjectConfig) { c.Rotation = r }
}

func WithScale(s mgl64.Vec3) ObjectOption {
	return func(c *ObjectConfig) { c.Scale = s }
}

func WithFixed(x, y, z bool) ObjectOption {
	return func(c *ObjectConfig) { c.Fixed = [3]bool{x, y, z} }
}

// WithTexture sets the texture path; an empty path keeps the type's default.
func WithTexture(path string) ObjectOption {
	return func(c *ObjectConfig) { c.Texture = path }
}

// Graphic toggles renderer registration for one object.
func Graphic(enabled bool) ObjectOption {
	return func(c *ObjectConfig) { c.Graphic = enabled }
}

// Physic toggles physics registration for one object.
func Physic(enabled bool) ObjectOption {
	return func(c *ObjectConfig) { c.Physic = enabled }
}

// Static registers the object as an immovable grid body. This is the default.
func Static() ObjectOption {
	return func(c *ObjectConfig) { c.Static = true }
}

// Dynamic registers the object as a moving body of the given weight.
func Dynamic(weight float64) ObjectOption {
	return func(c *ObjectConfig) {
		c.Static = false
		c.Weight = weight
	}
}

// WithCollision gives the body a square footprint. A non-positive width uses the default.
func WithCollision(halfWidth float64) ObjectOption {
	return func(c *ObjectConfig) {
		c.Collision = true
		c.CollisionWidth = halfWidth
	}
}
