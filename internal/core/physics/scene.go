package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/transform"
)

type staticEntry struct {
	name  string
	body  *Static
	level int
}

type dynamicEntry struct {
	name string
	body *Dynamic
}

// Scene owns the bodies of one level and runs the per-frame physics pipeline.
// Bodies are kept in registration order so every frame resolves them in the same order.
type Scene struct {
	ctx  *engine.Context
	name string

	grid *GridMap
	// origin is the world (x, z) of cell (0, 0).
	origin [2]float64

	// Statics and dynamics are separate registries; a name may be used once in each.
	statics      []*staticEntry
	dynamics     []*dynamicEntry
	staticIndex  map[string]int
	dynamicIndex map[string]int
	owners       map[*Static]string
}

func NewScene(ctx *engine.Context, name string, width, height int) *Scene {
	return &Scene{
		ctx:          ctx,
		name:         name,
		grid:         NewGridMap(width, height),
		staticIndex:  make(map[string]int),
		dynamicIndex: make(map[string]int),
		owners:       make(map[*Static]string),
	}
}

func (s *Scene) Name() string { return s.name }

func (s *Scene) Size() (width, height int) { return s.grid.Size() }

func (s *Scene) Grid() *GridMap { return s.grid }

// SetSize resizes the grid and registers the existing static bodies again.
func (s *Scene) SetSize(width, height int) {
	s.grid.Resize(width, height)
	for _, e := range s.statics {
		s.register(e)
	}
}

// SetOrigin moves cell (0, 0) to world (x, z) and registers the static bodies again.
func (s *Scene) SetOrigin(x, z float64) {
	s.origin = [2]float64{x, z}
	w, h := s.grid.Size()
	s.SetSize(w, h)
}

func (s *Scene) Origin() (x, z float64) { return s.origin[0], s.origin[1] }

// Fill clears one grid level. The static bodies stay registered by name.
func (s *Scene) Fill(level int) { s.grid.Fill(level) }

// AddStatic registers a static body. Duplicate names are rejected with a warning.
// The body enters the grid cell at its rounded absolute X/Z when that cell exists;
// otherwise it is only reachable by name.
func (s *Scene) AddStatic(name string, body *Static, level int) bool {
	if s.exists(s.staticIndex, KindStatic, name) {
		return false
	}
	e := &staticEntry{name: name, body: body, level: level}
	s.staticIndex[name] = len(s.statics)
	s.owners[body] = name
	s.statics = append(s.statics, e)
	s.register(e)
	return true
}

// AddDynamic registers a dynamic body. Duplicate names are rejected with a warning.
func (s *Scene) AddDynamic(name string, body *Dynamic) bool {
	if s.exists(s.dynamicIndex, KindDynamic, name) {
		return false
	}
	s.dynamicIndex[name] = len(s.dynamics)
	s.dynamics = append(s.dynamics, &dynamicEntry{name: name, body: body})
	return true
}

// NewStatic creates and registers a static body on t. On a duplicate name the
// existing body is returned.
func (s *Scene) NewStatic(name string, t *transform.Transform, collision *Square, level int) *Static {
	if s.exists(s.staticIndex, KindStatic, name) {
		b, _ := s.Static(name)
		return b
	}
	b := NewStaticBody(t, collision)
	s.AddStatic(name, b, level)
	return b
}

// NewDynamic creates and registers a dynamic body on t, with the same duplicate rule as NewStatic.
func (s *Scene) NewDynamic(name string, t *transform.Transform, collision *Square, weight float64) *Dynamic {
	if s.exists(s.dynamicIndex, KindDynamic, name) {
		b, _ := s.Dynamic(name)
		return b
	}
	b := NewDynamicBody(t, collision, weight)
	s.AddDynamic(name, b)
	return b
}

func (s *Scene) Static(name string) (*Static, bool) {
	i, ok := s.staticIndex[name]
	if !ok {
		return nil, false
	}
	return s.statics[i].body, true
}

func (s *Scene) Dynamic(name string) (*Dynamic, bool) {
	i, ok := s.dynamicIndex[name]
	if !ok {
		return nil, false
	}
	return s.dynamics[i].body, true
}

func (s *Scene) StaticCount() int  { return len(s.statics) }
func (s *Scene) DynamicCount() int { return len(s.dynamics) }

// CellAt returns the static body registered in a grid cell.
func (s *Scene) CellAt(level, x, z int) *Static { return s.grid.Lookup(level, x, z) }

// Update runs one frame: gravity for every dynamic body, then collision
// resolution for every dynamic body, then the position commit.
func (s *Scene) Update(dt float64) {
	for _, e := range s.dynamics {
		e.body.ApplyGravity(s.ctx.Gravity, dt)
	}
	for _, e := range s.dynamics {
		s.resolve(e, dt)
	}
	for _, e := range s.dynamics {
		e.body.Integrate(dt)
	}
}

// Destroy drops every body and grid level.
func (s *Scene) Destroy() {
	w, h := s.grid.Size()
	s.grid.Resize(w, h)
	s.statics = nil
	s.dynamics = nil
	s.staticIndex = make(map[string]int)
	s.dynamicIndex = make(map[string]int)
	s.owners = make(map[*Static]string)
}

func (s *Scene) exists(index map[string]int, kind Kind, name string) bool {
	if _, ok := index[name]; ok {
		s.ctx.Warn(engine.ErrDuplicateName, "physics body already exists",
			log.String("scene", s.name),
			log.String("kind", kind.String()),
			log.String("name", name),
		)
		return true
	}
	return false
}

func (s *Scene) register(e *staticEntry) {
	pos := s.gridPosition(e.body.Transform())
	x, z := cellOf(pos.X()), cellOf(pos.Z())
	if !s.grid.Level(e.level).Set(x, z, e.body) {
		s.ctx.Warn(engine.ErrOutOfBoundsStatic, "static body kept out of the grid",
			log.String("scene", s.name),
			log.String("name", e.name),
			log.Int("x", x),
			log.Int("z", z),
		)
	}
}

// gridPosition is the unscaled absolute position relative to the grid origin.
func (s *Scene) gridPosition(t *transform.Transform) mgl64.Vec3 {
	pos := t.AbsolutePosition(false)
	pos[0] -= s.origin[0]
	pos[2] -= s.origin[1]
	return pos
}

func cellOf(v float64) int { return int(math.Round(v)) }
