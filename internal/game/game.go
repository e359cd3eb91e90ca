package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/scene"
)

// DefaultMaxFPS caps the frame rate when no other cap is configured.
const DefaultMaxFPS = 5000

// MapExtension is the only level format NewScene loads.
const MapExtension = ".wad"

// MapHook observes every level loaded into a scene.
type MapHook func(s *scene.Scene, tiles *level.Scene2D)

// Game owns the scenes of a run and drives the frame loop on the current one.
type Game struct {
	ctx   *engine.Context
	log   log.Log
	clock engine.Clock
	input engine.Input

	maxFPS     int
	frameLimit int
	frames     int

	sceneOpts []scene.Option
	hooks     []MapHook

	scenes  map[string]*scene.Scene
	order   []string
	current string
}

type Option func(*Game)

func WithClock(c engine.Clock) Option {
	return func(g *Game) { g.clock = c }
}

func WithInput(in engine.Input) Option {
	return func(g *Game) { g.input = in }
}

// WithMaxFPS caps the frame rate; zero disables the cap.
func WithMaxFPS(fps int) Option {
	return func(g *Game) { g.maxFPS = fps }
}

// WithFrameLimit stops Run after n frames when n is positive.
func WithFrameLimit(n int) Option {
	return func(g *Game) { g.frameLimit = n }
}

// WithSceneOptions applies opts to every scene created by NewScene.
func WithSceneOptions(opts ...scene.Option) Option {
	return func(g *Game) { g.sceneOpts = append(g.sceneOpts, opts...) }
}

func OnMapLoaded(h MapHook) Option {
	return func(g *Game) { g.hooks = append(g.hooks, h) }
}

func New(ctx *engine.Context, opts ...Option) *Game {
	g := &Game{
		ctx:    ctx,
		log:    ctx.Log.Named("game"),
		maxFPS: DefaultMaxFPS,
		scenes: make(map[string]*scene.Scene),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = engine.NewFrameClock()
	}
	if g.input == nil {
		g.input = engine.NewKeyState()
	}
	return g
}

func (g *Game) Context() *engine.Context { return g.ctx }
func (g *Game) Input() engine.Input      { return g.input }
func (g *Game) Frames() int              { return g.frames }

// AssignMapPart binds a tile id to what it spawns. Taken ids are kept with a warning.
func (g *Game) AssignMapPart(id level.TileID, texture, typ string, static bool) bool {
	if !g.ctx.Parts.Assign(id, level.Part{Texture: texture, Type: typ, Static: static}) {
		g.ctx.Warn(engine.ErrDuplicateName, "map part already assigned", log.String("part", id.String()))
		return false
	}
	return true
}

// AddScene registers a scene under its name. Taken names are kept with a warning.
func (g *Game) AddScene(s *scene.Scene) bool {
	if _, ok := g.scenes[s.Name()]; ok {
		g.ctx.Warn(engine.ErrDuplicateName, "scene already exists", log.String("scene", s.Name()))
		return false
	}
	g.scenes[s.Name()] = s
	g.order = append(g.order, s.Name())
	return true
}

// NewScene creates, registers and optionally fills a scene from a level file.
// A taken name returns the existing scene with a warning. A missing map or one
// whose size differs from the scene's leaves the scene empty, with a warning.
func (g *Game) NewScene(name, mapPath string, opts ...scene.Option) *scene.Scene {
	if s, ok := g.scenes[name]; ok {
		g.ctx.Warn(engine.ErrDuplicateName, "scene already exists", log.String("scene", name))
		return s
	}

	cfg := scene.DefaultConfig()
	all := append(append([]scene.Option(nil), g.sceneOpts...), opts...)
	for _, opt := range all {
		opt(&cfg)
	}

	s := scene.New(g.ctx, name, all...)
	g.AddScene(s)
	if mapPath != "" {
		g.loadMap(s, mapPath, cfg.Width, cfg.Height)
	}
	return s
}

func (g *Game) loadMap(s *scene.Scene, path string, width, height int) {
	fields := []log.Field{log.String("scene", s.Name()), log.String("map", path)}

	if _, err := os.Stat(path); err != nil {
		g.ctx.Warn(engine.ErrMissingMapFile, "map does not exist", fields...)
		return
	}
	if !strings.EqualFold(filepath.Ext(path), MapExtension) {
		g.log.Debug("map format not supported", fields...)
		return
	}

	tiles := level.NewScene2D(width, height)
	if err := tiles.LoadMap(path); err != nil {
		if errors.Is(err, level.ErrSizeMismatch) {
			g.ctx.Warn(engine.ErrSizeMismatch, "map size differs from the scene size", append(fields, log.String("detail", err.Error()))...)
		} else {
			g.ctx.Warn(err, "map could not be read", fields...)
		}
		return
	}

	spawned, skipped := s.LoadFrom2DScene(tiles, g.ctx.Parts)
	g.log.Info("map loaded", append(fields, log.Int("objects", spawned), log.Int("skipped", skipped))...)
	for _, h := range g.hooks {
		h(s, tiles)
	}
}

func (g *Game) Scene(name string) (*scene.Scene, bool) {
	s, ok := g.scenes[name]
	return s, ok
}

// Scenes lists the scene names in registration order.
func (g *Game) Scenes() []string {
	return append([]string(nil), g.order...)
}

// SetCurrentScene selects the scene updated by each frame. Unknown names keep the
// current scene with a warning.
func (g *Game) SetCurrentScene(name string) bool {
	if _, ok := g.scenes[name]; !ok {
		g.ctx.Warn(engine.ErrUnknownScene, "scene does not exist", log.String("scene", name))
		return false
	}
	previous := g.current
	g.current = name
	g.ctx.Publish(engine.EventSceneSwitched, "game", name)
	g.log.Debug("current scene changed", log.String("from", previous), log.String("to", name))
	return true
}

// CurrentScene returns nil until a scene is selected.
func (g *Game) CurrentScene() *scene.Scene {
	return g.scenes[g.current]
}

// Frame renders one frame of dt seconds with the input already polled.
func (g *Game) Frame(dt float64) {
	r := g.ctx.Renderer
	r.Clear()
	if s := g.CurrentScene(); s != nil {
		s.Update(dt, g.input)
	}
	r.Present()
	g.frames++
}

// Step waits for the clock, polls input and runs one frame.
// It returns false once quit was requested.
func (g *Game) Step() bool {
	dt := g.clock.Tick(g.maxFPS)
	g.input.Poll()
	if g.input.Quit() {
		return false
	}
	g.Frame(dt)
	return true
}

// Done reports whether the frame limit was reached.
func (g *Game) Done() bool {
	return g.frameLimit > 0 && g.frames >= g.frameLimit
}

// Run steps until quit, the frame limit or ctx cancellation.
func (g *Game) Run(ctx context.Context) error {
	g.log.Info("game started", log.String("scene", g.current), log.Int("max_fps", g.maxFPS))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.Done() {
			g.log.Info("frame limit reached", log.Int("frames", g.frames))
			return nil
		}
		if !g.Step() {
			g.log.Info("quit requested", log.Int("frames", g.frames))
			return nil
		}
	}
}

// Destroy tears every scene down and closes the renderer.
func (g *Game) Destroy() error {
	for _, name := range g.order {
		g.scenes[name].Destroy()
	}
	g.scenes = make(map[string]*scene.Scene)
	g.order = nil
	g.current = ""
	return g.ctx.Renderer.Close()
}
