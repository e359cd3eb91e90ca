package render

import (
	"strings"

	"github.com/zeusync/matix/internal/core/transform"
)

// Kind is the closed set of object classes a scene can spawn.
// It is resolved once from the type string when an object is created.
type Kind uint8

const (
	KindCube Kind = iota
	// KindTest is a cube sharing one texture across its faces.
	KindTest
	// KindPrimitive is any other mesh, named by Type.Mesh.
	KindPrimitive
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindTest:
		return "test"
	case KindPlayer:
		return "player"
	default:
		return "primitive"
	}
}

// Type is a parsed object type: its kind plus the mesh name for primitives.
type Type struct {
	Kind Kind
	Mesh string
}

// ParseType resolves a type string such as "cube", "player" or "chair".
// An empty string is a cube.
func ParseType(s string) Type {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "cube":
		return Type{Kind: KindCube, Mesh: "cube"}
	case "test":
		return Type{Kind: KindTest, Mesh: "cube"}
	case "player":
		return Type{Kind: KindPlayer}
	default:
		return Type{Kind: KindPrimitive, Mesh: s}
	}
}

func (t Type) String() string {
	if t.Kind == KindPrimitive {
		return t.Mesh
	}
	return t.Kind.String()
}

// DefaultTexture is used when an object is created without a texture path.
// Cubes take a directory of face images, everything else a single image.
func (t Type) DefaultTexture() string {
	if t.Kind == KindCube || t.Kind == KindTest {
		return "textures/unknow"
	}
	return "textures/unknow.png"
}

// Renderer turns registered transforms into pixels. Scenes only ever talk to it
// through Register and the returned Drawable.
type Renderer interface {
	Register(name string, t *transform.Transform, typ Type, textures []*Texture) Drawable
	// Clear starts a frame.
	Clear()
	// Present shows everything rendered since Clear.
	Present()
	Close() error
}

// Drawable is one registered object.
type Drawable interface {
	Update()
	Render()
	Destroy()
}

// Follower is implemented by renderers whose view tracks a transform, usually the player's camera.
type Follower interface {
	Follow(t *transform.Transform)
}
