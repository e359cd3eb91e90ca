package scene

import (
	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/transform"
)

// GraphicScene keeps the drawables of a scene, by name, in registration order.
type GraphicScene struct {
	ctx       *engine.Context
	name      string
	drawables map[string]render.Drawable
	order     []string
}

func NewGraphicScene(ctx *engine.Context, name string) *GraphicScene {
	return &GraphicScene{
		ctx:       ctx,
		name:      name,
		drawables: make(map[string]render.Drawable),
	}
}

// Register resolves the textures and hands the transform to the renderer.
// A duplicate name keeps the existing drawable.
func (g *GraphicScene) Register(name string, t *transform.Transform, typ render.Type, texture string) render.Drawable {
	if d, ok := g.drawables[name]; ok {
		g.ctx.Warn(engine.ErrDuplicateName, "drawable already exists", log.String("scene", g.name), log.String("name", name))
		return d
	}
	if texture == "" {
		texture = typ.DefaultTexture()
	}

	d := g.ctx.Renderer.Register(name, t, typ, g.ctx.Textures.Resolve(texture))
	g.drawables[name] = d
	g.order = append(g.order, name)
	return d
}

func (g *GraphicScene) Drawable(name string) (render.Drawable, bool) {
	d, ok := g.drawables[name]
	return d, ok
}

func (g *GraphicScene) Len() int { return len(g.order) }

// Update refreshes then renders every drawable.
func (g *GraphicScene) Update() {
	for _, name := range g.order {
		d := g.drawables[name]
		d.Update()
		d.Render()
	}
}

func (g *GraphicScene) Destroy() {
	for _, name := range g.order {
		g.drawables[name].Destroy()
	}
	g.drawables = make(map[string]render.Drawable)
	g.order = nil
}
