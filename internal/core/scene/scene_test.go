package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/events/bus"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/physics"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/transform"
)

type recorder struct {
	textures  map[string][]*render.Texture
	types     map[string]render.Type
	followed  *transform.Transform
	updates   int
	renders   int
	destroyed int
}

func newRecorder() *recorder {
	return &recorder{
		textures: make(map[string][]*render.Texture),
		types:    make(map[string]render.Type),
	}
}

func (r *recorder) Register(name string, _ *transform.Transform, typ render.Type, textures []*render.Texture) render.Drawable {
	r.textures[name] = textures
	r.types[name] = typ
	return &recordedDrawable{r: r}
}

func (r *recorder) Clear()                        {}
func (r *recorder) Present()                      {}
func (r *recorder) Close() error                  { return nil }
func (r *recorder) Follow(t *transform.Transform) { r.followed = t }

type recordedDrawable struct{ r *recorder }

func (d *recordedDrawable) Update()  { d.r.updates++ }
func (d *recordedDrawable) Render()  { d.r.renders++ }
func (d *recordedDrawable) Destroy() { d.r.destroyed++ }

type fixture struct {
	ctx      *engine.Context
	renderer *recorder
	logs     *observer.ObservedLogs
}

func newFixture(gravity float64) *fixture {
	core, logs := observer.New(zap.DebugLevel)
	r := newRecorder()
	return &fixture{
		ctx:      engine.NewContext(log.NewWithCore(core), engine.WithRenderer(r), engine.WithGravity(gravity)),
		renderer: r,
		logs:     logs,
	}
}

func TestNewSceneDefaults(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1")

	assert.Equal(t, "level1", s.Name())
	assert.NotEmpty(t, s.ID())
	assert.True(t, s.UseGraphic())
	assert.True(t, s.UsePhysic())
	assert.Equal(t, float64(DefaultMultiplier), s.Multiplier())
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, s.Root().Scale())

	w, h := s.Physic().Size()
	assert.Equal(t, 25, w)
	assert.Equal(t, 25, h)

	other := New(f.ctx, "level1", WithGraphic(false), WithPhysic(false), WithMultiplier(3))
	assert.NotEqual(t, s.ID(), other.ID())
	assert.False(t, other.UseGraphic())
	assert.False(t, other.UsePhysic())
	assert.Nil(t, other.Physic())
	assert.Equal(t, mgl64.Vec3{3, 3, 3}, other.Root().Scale())
}

func TestNewObjectRegistersEverywhere(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1", WithSize(10, 10))

	tr := s.NewObject("crate", render.ParseType("cube"),
		WithPosition(mgl64.Vec3{3, 0, 4}),
		WithCollision(0),
	)

	obj, ok := s.Object("crate")
	require.True(t, ok)
	assert.Same(t, tr, obj.Transform)
	assert.Equal(t, render.KindCube, obj.Type.Kind)
	assert.NotNil(t, obj.Drawable)

	st, ok := obj.Body.(*physics.Static)
	require.True(t, ok, "objects are static by default")
	require.NotNil(t, st.Collision())
	assert.Equal(t, physics.DefaultHalfWidth, st.Collision().HalfWidth)
	assert.Same(t, st, s.Physic().CellAt(0, 3, 4))

	require.Contains(t, f.renderer.textures, "crate")
	assert.Equal(t, "textures/unknow", f.renderer.textures["crate"][0].Path)

	assert.Equal(t, mgl64.Vec3{6, 0, 8}, tr.AbsolutePosition(true), "render positions are multiplied")
	assert.Equal(t, mgl64.Vec3{3, 0, 4}, tr.AbsolutePosition(false), "physics works in tile units")
}

func TestNewObjectWithoutCollisionOrSubsystems(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1")

	s.NewObject("decor", render.ParseType("lamp"), Physic(false))
	s.NewObject("hidden", render.ParseType("cube"), Graphic(false))
	s.NewObject("plain", render.ParseType("cube"))

	decor, _ := s.Object("decor")
	assert.Nil(t, decor.Body)
	assert.Equal(t, "textures/unknow.png", f.renderer.textures["decor"][0].Path)
	assert.Equal(t, render.Type{Kind: render.KindPrimitive, Mesh: "lamp"}, f.renderer.types["decor"])

	hidden, _ := s.Object("hidden")
	assert.Nil(t, hidden.Drawable)
	assert.NotContains(t, f.renderer.textures, "hidden")
	assert.NotNil(t, hidden.Body)

	plain, _ := s.Object("plain")
	assert.Nil(t, plain.Body.Collision())

	off := New(f.ctx, "off", WithGraphic(false), WithPhysic(false))
	off.NewObject("crate", render.ParseType("cube"))
	obj, ok := off.Object("crate")
	require.True(t, ok)
	assert.Nil(t, obj.Body)
	assert.Nil(t, obj.Drawable)
}

func TestDuplicateObjectNameIsRejected(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1")

	first := s.NewObject("crate", render.ParseType("cube"), WithPosition(mgl64.Vec3{1, 0, 1}))
	second := s.NewObject("crate", render.ParseType("player"), WithPosition(mgl64.Vec3{9, 9, 9}))

	assert.Same(t, first, second)
	assert.Equal(t, mgl64.Vec3{1, 0, 1}, first.Position())
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.Player(), "the rejected player is never created")
	assert.Len(t, f.renderer.textures, 1)
	assert.Equal(t, 1, s.Physic().StaticCount())

	warnings := f.logs.FilterMessage("object already exists").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, engine.ErrDuplicateName.Error(), warnings[0].ContextMap()["error"])
}

func TestObjectParenting(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1", WithMultiplier(1))

	table := s.NewObject("table", render.ParseType("table"), WithPosition(mgl64.Vec3{2, 0, 2}), Physic(false))
	cup := s.NewObject("cup", render.ParseType("cup"), WithParent(table), WithPosition(mgl64.Vec3{0, 1, 0}), Physic(false))

	assert.Equal(t, table.ID(), cup.ParentID())
	assert.Equal(t, mgl64.Vec3{2, 1, 2}, cup.AbsolutePosition(true))
	assert.Equal(t, []string{"table", "cup"}, s.Names())
}

func TestPlayerCreation(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1")

	tr := s.NewObject("player", render.ParseType("player"),
		WithPosition(mgl64.Vec3{1, 0, 2}),
		Dynamic(1),
		WithCollision(0.3),
	)

	p := s.Player()
	require.NotNil(t, p)
	assert.Same(t, tr, p.Transform())
	assert.Same(t, p.Camera().Transform(), f.renderer.followed)
	require.NotNil(t, p.Body())
	assert.Equal(t, 5.0, p.Speed)

	parent, ok := p.Camera().Transform().Parent()
	require.True(t, ok)
	assert.Same(t, tr, parent)

	assert.InDelta(t, 1.0, tr.Forward().X(), 1e-12, "player vectors follow the initial rotation")
}

func TestPlayerWalksWithoutPhysics(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1", WithPhysic(false))
	tr := s.NewObject("player", render.ParseType("player"))

	in := engine.NewKeyState()
	in.Press(engine.ActionForward)
	in.Poll()
	s.Update(0.1, in)

	assert.InDelta(t, 0.5, tr.Position().X(), 1e-12)
	assert.InDelta(t, 0.0, tr.Position().Z(), 1e-12)

	in.Release(engine.ActionForward)
	in.Press(engine.ActionUp)
	s.Update(0.1, in)
	assert.InDelta(t, 0.5, tr.Position().Y(), 1e-12)
}

func TestPlayerIsStoppedByWalls(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1")
	s.NewObject("wall", render.ParseType("cube"), WithPosition(mgl64.Vec3{5, 0, 5}), WithCollision(0))
	tr := s.NewObject("player", render.ParseType("player"),
		WithPosition(mgl64.Vec3{4.2, 0, 5}),
		Dynamic(1),
		WithCollision(0.3),
	)

	var blocked []engine.Blocked
	_, err := f.ctx.Bus.Subscribe(engine.EventBlocked, func(e bus.Event) error {
		blocked = append(blocked, e.Data().(engine.Blocked))
		return nil
	})
	require.NoError(t, err)

	in := engine.NewKeyState()
	in.Press(engine.ActionForward)
	in.Poll()
	s.Update(0.1, in)

	assert.InDelta(t, 4.2, tr.Position().X(), 1e-12)
	require.Len(t, blocked, 1)
	assert.Equal(t, "player", blocked[0].Body)
	assert.Equal(t, "wall", blocked[0].Obstacle)

	in.Release(engine.ActionForward)
	in.Press(engine.ActionRight)
	s.Update(0.1, in)
	assert.InDelta(t, 5.5, tr.Position().Z(), 1e-12, "sideways motion is free")
}

func TestPlayerTurnsAndCameraPitch(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1", WithPhysic(false))
	tr := s.NewObject("player", render.ParseType("player"), WithPosition(mgl64.Vec3{1, 0, 2}))
	cam := s.Player().Camera()

	in := engine.NewKeyState()
	in.MoveMouse(100, 0)
	in.Poll()
	s.Update(0.1, in)

	assert.InDelta(t, 5.0, tr.Rotation().X(), 1e-12)
	values := cam.Values()
	assert.InDelta(t, 5.0, values.Yaw, 1e-12)
	assert.Equal(t, mgl64.Vec3{2, 0, 4}, values.Position)

	in.MoveMouse(0, -10000)
	in.Poll()
	s.Update(0.1, in)

	values = cam.Values()
	assert.Equal(t, float64(PitchLimit), values.Pitch)
	assert.InDelta(t, float64(PitchLimit), cam.Transform().AbsoluteRotation().Z(), 1e-9)
	assert.Greater(t, values.Forward.Y(), 0.99)

	in.Press(engine.ActionLookDown)
	in.Poll()
	s.Update(1, in)
	assert.InDelta(t, PitchLimit-DefaultTurnSpeed, cam.Values().Pitch, 1e-9)
}

func TestCameraMatrices(t *testing.T) {
	v := DefaultCameraValues()
	view, ident := v.View(), mgl64.Ident4()
	assert.InDeltaSlice(t, ident[:], view[:], 1e-12)

	p := v.Projection()
	assert.Equal(t, -1.0, p[11])
	assert.InDelta(t, 1/(v.Aspect*math.Tan(mgl64.DegToRad(v.FOV)/2)), p[0], 1e-12)
}

func TestGraphicSceneUpdateAndDuplicates(t *testing.T) {
	f := newFixture(0)
	g := NewGraphicScene(f.ctx, "level1")
	arena := transform.NewArena()

	d := g.Register("a", arena.NewRoot(mgl64.Vec3{}), render.ParseType("cube"), "")
	assert.Same(t, d, g.Register("a", arena.NewRoot(mgl64.Vec3{}), render.ParseType("cube"), ""))
	g.Register("b", arena.NewRoot(mgl64.Vec3{}), render.ParseType("cube"), "textures/b.png")
	assert.Equal(t, 2, g.Len())

	g.Update()
	assert.Equal(t, 2, f.renderer.updates)
	assert.Equal(t, 2, f.renderer.renders)

	g.Destroy()
	assert.Equal(t, 2, f.renderer.destroyed)
	assert.Zero(t, g.Len())
	_, ok := g.Drawable("a")
	assert.False(t, ok)
}

func TestLoadFrom2DScene(t *testing.T) {
	f := newFixture(0)
	require.True(t, f.ctx.Parts.Assign('1', level.Part{Texture: "textures/wall.png", Type: "cube", Static: true}))
	require.True(t, f.ctx.Parts.Assign('2', level.Part{Type: "barrel"}))

	tiles := level.NewScene2D(3, 2)
	require.NoError(t, tiles.Parse(strings.NewReader("1 2 3 2\n120\n091\n")))

	var loaded engine.SceneLoaded
	_, err := f.ctx.Bus.Subscribe(engine.EventSceneLoaded, func(e bus.Event) error {
		loaded = e.Data().(engine.SceneLoaded)
		return nil
	})
	require.NoError(t, err)

	s := New(f.ctx, "level1")
	spawned, skipped := s.LoadFrom2DScene(tiles, f.ctx.Parts)

	assert.Equal(t, 3, spawned)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []string{"0;0", "1;0", "2;1"}, s.Names())
	assert.Equal(t, mgl64.Vec3{1, 0, 2}, s.Root().Position())

	w, h := s.Physic().Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	tr, ok := s.Transform("2;1")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{2, 3, 1}, tr.Position())
	assert.Equal(t, mgl64.Vec3{1, 5, 1}, tr.Scale())
	obj, _ := s.Object("2;1")
	assert.Same(t, obj.Body, physics.Body(s.Physic().CellAt(0, 2, 1)))
	assert.Equal(t, "textures/wall.png", f.renderer.textures["2;1"][0].Path)

	barrel, _ := s.Object("1;0")
	_, dynamic := barrel.Body.(*physics.Dynamic)
	assert.True(t, dynamic)
	assert.Equal(t, physics.DefaultHalfWidth, barrel.Body.Collision().HalfWidth)
	assert.Equal(t, "textures/unknow.png", f.renderer.textures["1;0"][0].Path)

	warnings := f.logs.FilterMessage("unknown part in map").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "9", warnings[0].ContextMap()["part"])
	assert.Equal(t, engine.ErrUnknownTileID.Error(), warnings[0].ContextMap()["error"])

	assert.Equal(t, engine.SceneLoaded{Scene: "level1", Objects: 3, Skipped: 1}, loaded)
}

func TestSceneUpdateRendersCommittedPositions(t *testing.T) {
	f := newFixture(-10)
	s := New(f.ctx, "level1")
	rock := s.NewObject("rock", render.ParseType("rock"), Dynamic(2), WithPosition(mgl64.Vec3{1, 10, 1}))
	s.NewObject("floor", render.ParseType("cube"))

	s.Update(0.1, nil)

	assert.InDelta(t, 9.9, rock.Position().Y(), 1e-12)
	assert.Equal(t, 2, f.renderer.updates)
	assert.Equal(t, 2, f.renderer.renders)
}

func TestSceneDestroy(t *testing.T) {
	f := newFixture(0)
	s := New(f.ctx, "level1")
	s.NewObject("crate", render.ParseType("cube"))
	s.NewObject("player", render.ParseType("player"), Dynamic(1))

	s.Destroy()

	assert.Zero(t, s.Len())
	assert.Nil(t, s.Player())
	assert.Equal(t, 2, f.renderer.destroyed)
	assert.Zero(t, s.Physic().StaticCount())
	assert.Zero(t, s.Physic().DynamicCount())
	assert.Equal(t, 1, s.Arena().Len(), "only the root is left")
}
