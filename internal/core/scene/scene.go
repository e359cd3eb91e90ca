package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/physics"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/transform"
)

// Object is one named entry of a scene.
type Object struct {
	Name      string
	Type      render.Type
	Transform *transform.Transform
	Body      physics.Body    // nil without physics
	Drawable  render.Drawable // nil without graphics
}

// Scene is the object registry of one level. Every object transform hangs, directly
// or not, under the scene root, whose scale is the position multiplier: physics reads
// unscaled positions in tile units while the renderer reads scaled world positions.
type Scene struct {
	ctx  *engine.Context
	log  log.Log
	id   string
	name string
	cfg  Config

	arena *transform.Arena
	root  *transform.Transform

	physic  *physics.Scene
	graphic *GraphicScene

	objects map[string]*Object
	order   []string
	player  *Player
}

func New(ctx *engine.Context, name string, opts ...Option) *Scene {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Scene{
		ctx:     ctx,
		id:      uuid.NewString(),
		name:    name,
		cfg:     cfg,
		arena:   transform.NewArena(),
		objects: make(map[string]*Object),
	}
	s.log = ctx.Log.Named("scene").With(log.String("scene", name))
	s.root = s.arena.NewRoot(mgl64.Vec3{})
	s.SetMultiplier(cfg.Multiplier)

	if cfg.Graphic {
		s.graphic = NewGraphicScene(ctx, name)
	}
	if cfg.Physic {
		s.physic = physics.NewScene(ctx, name, cfg.Width, cfg.Height)
	}
	return s
}

// ID is unique per scene instance, unlike the name.
func (s *Scene) ID() string                 { return s.id }
func (s *Scene) Name() string               { return s.name }
func (s *Scene) Root() *transform.Transform { return s.root }
func (s *Scene) Arena() *transform.Arena    { return s.arena }
func (s *Scene) UseGraphic() bool           { return s.graphic != nil }
func (s *Scene) UsePhysic() bool            { return s.physic != nil }

// Physic returns the physics scene, nil when physics is disabled.
func (s *Scene) Physic() *physics.Scene { return s.physic }

// Graphic returns the graphic scene, nil when graphics are disabled.
func (s *Scene) Graphic() *GraphicScene { return s.graphic }

// Player returns the last object created with the player type.
func (s *Scene) Player() *Player { return s.player }

func (s *Scene) Multiplier() float64 { return s.cfg.Multiplier }

func (s *Scene) SetMultiplier(m float64) {
	s.cfg.Multiplier = m
	s.root.SetScale(mgl64.Vec3{m, m, m})
}

func (s *Scene) Object(name string) (*Object, bool) {
	o, ok := s.objects[name]
	return o, ok
}

func (s *Scene) Transform(name string) (*transform.Transform, bool) {
	o, ok := s.objects[name]
	if !ok {
		return nil, false
	}
	return o.Transform, true
}

func (s *Scene) Len() int { return len(s.order) }

// Names lists the objects in creation order.
func (s *Scene) Names() []string {
	return append([]string(nil), s.order...)
}

// NewObject creates a named object and registers it with the enabled subsystems.
// A duplicate name logs a warning and returns the existing transform untouched.
func (s *Scene) NewObject(name string, typ render.Type, opts ...ObjectOption) *transform.Transform {
	if o, ok := s.objects[name]; ok {
		s.ctx.Warn(engine.ErrDuplicateName, "object already exists", log.String("scene", s.name), log.String("name", name))
		return o.Transform
	}

	cfg := defaultObjectConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	parent := s.root.ID()
	if cfg.Parent != nil {
		parent = cfg.Parent.ID()
	}
	t := s.arena.New(parent, cfg.Position, cfg.Rotation, cfg.Scale)
	t.SetFixed(cfg.Fixed)

	obj := &Object{Name: name, Type: typ, Transform: t}
	if typ.Kind == render.KindPlayer {
		s.newPlayer(t)
	}

	if s.graphic != nil && cfg.Graphic {
		obj.Drawable = s.graphic.Register(name, t, typ, cfg.Texture)
	}

	if s.physic != nil && cfg.Physic {
		var shape *physics.Square
		if cfg.Collision {
			shape = physics.NewSquare(cfg.CollisionWidth)
		}
		if cfg.Static {
			if b := s.physic.NewStatic(name, t, shape, 0); b != nil {
				obj.Body = b
			}
		} else if b := s.physic.NewDynamic(name, t, shape, cfg.Weight); b != nil {
			obj.Body = b
			if typ.Kind == render.KindPlayer {
				s.player.body = b
			}
		}
	}

	s.objects[name] = obj
	s.order = append(s.order, name)
	s.log.Debug("object created",
		log.String("name", name),
		log.String("type", typ.String()),
		log.Vec3("position", cfg.Position),
	)
	return t
}

func (s *Scene) newPlayer(t *transform.Transform) {
	cam := s.arena.New(t.ID(), mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	s.player = newPlayer(t, NewCamera(cam, DefaultCameraValues()))
	if f, ok := s.ctx.Renderer.(render.Follower); ok && s.graphic != nil {
		f.Follow(cam)
	}
}

// Update runs one frame: player input, physics, camera sync, then drawing.
func (s *Scene) Update(dt float64, in engine.Input) {
	if s.player != nil && in != nil {
		s.player.HandleInput(in, dt)
	}
	if s.physic != nil {
		s.physic.Update(dt)
	}
	if s.player != nil {
		s.player.Update()
	}
	if s.graphic != nil {
		s.graphic.Update()
	}
}

// Destroy releases drawables, drops physics bodies and frees every transform.
func (s *Scene) Destroy() {
	if s.graphic != nil {
		s.graphic.Destroy()
	}
	if s.physic != nil {
		s.physic.Destroy()
	}
	if s.player != nil {
		s.arena.Destroy(s.player.camera.transform.ID())
		s.player = nil
	}
	for _, name := range s.order {
		s.arena.Destroy(s.objects[name].Transform.ID())
	}
	s.objects = make(map[string]*Object)
	s.order = nil
	s.log.Debug("scene destroyed", log.Int("transforms", s.arena.Len()))
}
