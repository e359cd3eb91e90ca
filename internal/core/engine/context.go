package engine

import (
	"github.com/zeusync/matix/internal/core/events/bus"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
)

// DefaultGravity is the vertical acceleration applied to dynamic bodies.
const DefaultGravity = -9.81

// Context carries what every scene of a game shares: logging, events, the parts
// table, the texture cache and the renderer. It is passed explicitly into scene
// and physics construction.
type Context struct {
	Log      log.Log
	Bus      bus.EventBus
	Parts    *level.Parts
	Textures *render.TextureCache
	Renderer render.Renderer
	Gravity  float64
}

type ContextOption func(*Context)

func WithBus(b bus.EventBus) ContextOption {
	return func(c *Context) { c.Bus = b }
}

func WithRenderer(r render.Renderer) ContextOption {
	return func(c *Context) { c.Renderer = r }
}

func WithGravity(g float64) ContextOption {
	return func(c *Context) { c.Gravity = g }
}

func WithParts(p *level.Parts) ContextOption {
	return func(c *Context) { c.Parts = p }
}

// NewContext builds a context around l. Without options it has a fresh event bus,
// an empty parts table, the nop renderer and DefaultGravity.
func NewContext(l log.Log, opts ...ContextOption) *Context {
	if l == nil {
		l = log.NewNop()
	}
	c := &Context{
		Log:     l,
		Gravity: DefaultGravity,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.Bus == nil {
		c.Bus = bus.New()
	}
	if c.Parts == nil {
		c.Parts = level.NewParts()
	}
	if c.Renderer == nil {
		c.Renderer = render.NewNop()
	}
	c.Textures = render.NewTextureCache(c.Log)
	return c
}

// Warn reports a recoverable problem with err as the error field.
func (c *Context) Warn(err error, msg string, fields ...log.Field) {
	c.Log.Warn(msg, append(fields, log.Error(err))...)
}

// Publish sends an engine event. Handler failures are logged, never returned.
func (c *Context) Publish(typ, source string, data any) {
	if err := c.Bus.Publish(bus.NewEvent(typ, source, data)); err != nil {
		c.Log.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
