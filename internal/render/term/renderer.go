package term

import (
	"fmt"
	"image/color"
	"math"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/transform"
)

var (
	_ render.Renderer = (*Renderer)(nil)
	_ render.Follower = (*Renderer)(nil)
)

// Terminal cells are about twice as tall as wide, so a world unit spans one
// column but only half a row by default.
const (
	DefaultXScale = 1.0
	DefaultZScale = 0.5
)

// statusRows are reserved at the top of the screen.
const statusRows = 1

// Renderer draws a top-down view of the scene: X runs right, Z runs down.
type Renderer struct {
	screen tcell.Screen
	log    log.Log
	title  string

	xScale float64
	zScale float64

	drawables []*drawable
	follow    *transform.Transform
	frames    int

	closed    chan struct{}
	closeOnce sync.Once
}

type Option func(*Renderer)

func WithTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

// WithScale sets how many columns and rows one world unit covers.
func WithScale(x, z float64) Option {
	return func(r *Renderer) {
		if x > 0 {
			r.xScale = x
		}
		if z > 0 {
			r.zScale = z
		}
	}
}

// New initialises screen and takes ownership of it; Close finalizes it.
func New(screen tcell.Screen, l log.Log, opts ...Option) (*Renderer, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.HideCursor()
	screen.EnableMouse(tcell.MouseMotionEvents)

	r := &Renderer{
		screen: screen,
		log:    l.Named("term"),
		closed: make(chan struct{}),
		title:  "matix",
		xScale: DefaultXScale,
		zScale: DefaultZScale,
	}
	for _, opt := range opts {
		opt(r)
	}

	w, h := screen.Size()
	r.log.Info("terminal renderer ready", log.Int("width", w), log.Int("height", h))
	return r, nil
}

func (r *Renderer) Register(name string, t *transform.Transform, typ render.Type, textures []*render.Texture) render.Drawable {
	d := &drawable{
		r:     r,
		name:  name,
		t:     t,
		typ:   typ,
		glyph: glyphOf(typ),
		style: tcell.StyleDefault.Foreground(toColor(render.Average(textures))),
	}
	r.drawables = append(r.drawables, d)
	return d
}

// Follow centres the view on t.
func (r *Renderer) Follow(t *transform.Transform) { r.follow = t }

func (r *Renderer) Clear() { r.screen.Clear() }

func (r *Renderer) Present() {
	r.frames++
	status := fmt.Sprintf("%s  frame %d  objects %d", r.title, r.frames, len(r.drawables))
	if r.follow != nil {
		p := r.follow.AbsolutePosition(true)
		status += fmt.Sprintf("  x %.1f z %.1f", p.X(), p.Z())
	}
	r.drawString(0, 0, status, tcell.StyleDefault.Reverse(true))
	r.screen.Show()
}

// Close finalizes the screen. Calling it again does nothing.
func (r *Renderer) Close() error {
	r.closeOnce.Do(func() {
		close(r.closed)
		r.screen.Fini()
		r.log.Info("terminal renderer closed", log.Int("frames", r.frames))
	})
	return nil
}

// Done is closed by Close.
func (r *Renderer) Done() <-chan struct{} { return r.closed }

// HandleEvent reacts to screen events that concern the renderer.
func (r *Renderer) HandleEvent(ev tcell.Event) {
	if _, ok := ev.(*tcell.EventResize); ok {
		r.screen.Sync()
	}
}

// Len is the number of live drawables.
func (r *Renderer) Len() int { return len(r.drawables) }

// project maps a world position to a screen cell. Without a followed
// transform the world origin sits at the top-left corner below the status line.
func (r *Renderer) project(p mgl64.Vec3) (col, row int) {
	var cx, cz float64
	col0, row0 := 0, statusRows
	if r.follow != nil {
		f := r.follow.AbsolutePosition(true)
		cx, cz = f.X(), f.Z()
		w, h := r.screen.Size()
		col0, row0 = w/2, statusRows+(h-statusRows)/2
	}
	col = col0 + int(math.Round((p.X()-cx)*r.xScale))
	row = row0 + int(math.Round((p.Z()-cz)*r.zScale))
	return col, row
}

func (r *Renderer) remove(d *drawable) {
	for i, other := range r.drawables {
		if other == d {
			r.drawables = append(r.drawables[:i], r.drawables[i+1:]...)
			return
		}
	}
}

func (r *Renderer) drawString(x, y int, s string, style tcell.Style) {
	w, _ := r.screen.Size()
	for _, c := range s {
		if x >= w {
			return
		}
		r.screen.SetContent(x, y, c, nil, style)
		x++
	}
}

type drawable struct {
	r     *Renderer
	name  string
	t     *transform.Transform
	typ   render.Type
	glyph rune
	style tcell.Style

	col, row int
}

func (d *drawable) Update() {
	d.col, d.row = d.r.project(d.t.AbsolutePosition(true))
	if d.typ.Kind == render.KindPlayer {
		d.glyph = heading(d.t.Forward())
	}
}

func (d *drawable) Render() {
	w, h := d.r.screen.Size()
	if d.col < 0 || d.col >= w || d.row < statusRows || d.row >= h {
		return
	}
	d.r.screen.SetContent(d.col, d.row, d.glyph, nil, d.style)
}

func (d *drawable) Destroy() { d.r.remove(d) }

func glyphOf(typ render.Type) rune {
	switch typ.Kind {
	case render.KindCube:
		return '█'
	case render.KindTest:
		return '▓'
	case render.KindPlayer:
		return '@'
	}
	if c, _ := utf8.DecodeRuneInString(typ.Mesh); c != utf8.RuneError {
		return unicode.ToUpper(c)
	}
	return '?'
}

// heading picks the arrow closest to the forward vector seen from above.
func heading(forward mgl64.Vec3) rune {
	x, z := forward.X(), forward.Z()
	if math.Abs(x) >= math.Abs(z) {
		if x >= 0 {
			return '>'
		}
		return '<'
	}
	if z > 0 {
		return 'v'
	}
	return '^'
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
