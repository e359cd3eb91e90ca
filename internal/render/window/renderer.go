package window

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/transform"
)

var (
	_ render.Renderer = (*Renderer)(nil)
	_ render.Follower = (*Renderer)(nil)
	_ ebiten.Game     = (*Renderer)(nil)
)

var background = color.RGBA{R: 16, G: 16, B: 24, A: 255}

// Lens is the perspective used to project the scene.
type Lens struct {
	FOV  float64 // degrees
	Near float64
	Far  float64
}

func DefaultLens() Lens {
	return Lens{FOV: 50, Near: 0.1, Far: 100}
}

// unit cube centred on the origin, transformed by each object's model matrix.
var (
	cubeCorners = [8]mgl64.Vec4{
		{-0.5, -0.5, -0.5, 1}, {0.5, -0.5, -0.5, 1}, {0.5, 0.5, -0.5, 1}, {-0.5, 0.5, -0.5, 1},
		{-0.5, -0.5, 0.5, 1}, {0.5, -0.5, 0.5, 1}, {0.5, 0.5, 0.5, 1}, {-0.5, 0.5, 0.5, 1},
	}
	cubeEdges = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
)

type segment struct {
	x0, y0, x1, y1 float32
	color          color.RGBA
}

// Renderer draws every object as a wireframe box seen from the followed
// transform. Frames are recorded between Clear and Present and painted by
// ebiten's Draw, so the game step runs from Update.
type Renderer struct {
	log   log.Log
	title string
	lens  Lens

	width  int
	height int

	follow    *transform.Transform
	drawables []*drawable

	building []segment
	shown    []segment
	frames   int

	step func() bool
}

type Option func(*Renderer)

func WithTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

func WithLens(l Lens) Option {
	return func(r *Renderer) { r.lens = l }
}

func New(l log.Log, opts ...Option) *Renderer {
	r := &Renderer{
		log:    l.Named("window"),
		title:  "matix",
		lens:   DefaultLens(),
		width:  1280,
		height: 720,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Register(name string, t *transform.Transform, typ render.Type, textures []*render.Texture) render.Drawable {
	c := render.Fallback
	if len(textures) > 0 {
		c = textures[0].Color
	}
	d := &drawable{r: r, name: name, t: t, typ: typ, color: c}
	r.drawables = append(r.drawables, d)
	return d
}

// Follow puts the eye on t, looking along its forward vector.
func (r *Renderer) Follow(t *transform.Transform) { r.follow = t }

func (r *Renderer) Clear() { r.building = r.building[:0] }

func (r *Renderer) Present() {
	r.shown = append(r.shown[:0], r.building...)
	r.frames++
}

func (r *Renderer) Close() error {
	r.log.Info("window renderer closed", log.Int("frames", r.frames))
	return nil
}

func (r *Renderer) Len() int { return len(r.drawables) }

// Clock paces a window run. ebiten calls Update at a fixed rate, so every
// frame lasts one tick.
func Clock() *engine.FixedClock {
	return engine.NewFixedClock(1 / float64(ebiten.DefaultTPS))
}

// Run opens the window and calls step once per tick until it returns false
// or the window is closed.
func (r *Renderer) Run(step func() bool) error {
	r.step = step
	ebiten.SetWindowTitle(r.title)
	ebiten.SetWindowSize(r.width, r.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	r.log.Info("window opened", log.Int("width", r.width), log.Int("height", r.height), log.Int("tps", ebiten.TPS()))
	err := ebiten.RunGame(r)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (r *Renderer) Update() error {
	if r.step != nil && !r.step() {
		return ebiten.Termination
	}
	return nil
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	for _, s := range r.shown {
		vector.StrokeLine(screen, s.x0, s.y0, s.x1, s.y1, 1, s.color, false)
	}
	ebitenutil.DebugPrintAt(screen, r.status(), 4, 4)
}

func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.width, r.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (r *Renderer) status() string {
	s := fmt.Sprintf("%s  frame %d  objects %d  fps %.0f", r.title, r.frames, len(r.drawables), ebiten.ActualFPS())
	if r.follow != nil {
		p := r.follow.AbsolutePosition(true)
		s += fmt.Sprintf("\nx %.1f y %.1f z %.1f", p.X(), p.Y(), p.Z())
	}
	return s
}

// viewProjection looks from the followed transform, or from above the origin
// down the -Z axis when nothing is followed.
func (r *Renderer) viewProjection() mgl64.Mat4 {
	eye, forward, up := mgl64.Vec3{0, 2, 5}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}
	if r.follow != nil {
		eye = r.follow.AbsolutePosition(true)
		forward = r.follow.Forward()
		up = r.follow.Up()
	}
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	view := mgl64.LookAtV(eye, eye.Add(forward), up)
	aspect := float64(r.width) / float64(r.height)
	proj := mgl64.Perspective(mgl64.DegToRad(r.lens.FOV), aspect, r.lens.Near, r.lens.Far)
	return proj.Mul4(view)
}

// toScreen returns false for points behind the eye.
func (r *Renderer) toScreen(clip mgl64.Vec4) (x, y float32, ok bool) {
	if clip.W() < r.lens.Near {
		return 0, 0, false
	}
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	x = float32((nx + 1) / 2 * float64(r.width))
	y = float32((1 - ny) / 2 * float64(r.height))
	return x, y, true
}

func (r *Renderer) remove(d *drawable) {
	for i, other := range r.drawables {
		if other == d {
			r.drawables = append(r.drawables[:i], r.drawables[i+1:]...)
			return
		}
	}
}

type drawable struct {
	r     *Renderer
	name  string
	t     *transform.Transform
	typ   render.Type
	color color.RGBA

	model mgl64.Mat4
}

func (d *drawable) Update() { d.model = d.t.ModelMatrix() }

// Render records the box edges whose ends are both in front of the eye.
// The player is the eye and is not drawn.
func (d *drawable) Render() {
	if d.typ.Kind == render.KindPlayer {
		return
	}
	mvp := d.r.viewProjection().Mul4(d.model)

	var xs, ys [8]float32
	var visible [8]bool
	for i, c := range cubeCorners {
		xs[i], ys[i], visible[i] = d.r.toScreen(mvp.Mul4x1(c))
	}
	for _, e := range cubeEdges {
		a, b := e[0], e[1]
		if !visible[a] || !visible[b] {
			continue
		}
		d.r.building = append(d.r.building, segment{xs[a], ys[a], xs[b], ys[b], d.color})
	}
}

func (d *drawable) Destroy() { d.r.remove(d) }
