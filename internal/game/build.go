package game

import (
	"context"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/config"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/scene"
)

// Populate assigns the configured parts and preloads their textures, creates
// the configured scenes with their maps and objects, and selects the start
// scene (the first one by default).
func (g *Game) Populate(cfg *config.Config) {
	textures := make([]string, 0, len(cfg.Parts))
	for _, p := range cfg.Parts {
		g.AssignMapPart(level.TileID(p.ID[0]), p.Texture, p.Type, !p.Dynamic)
		textures = append(textures, p.Texture)
	}
	if err := g.ctx.Textures.Preload(context.Background(), textures, runtime.NumCPU()); err != nil {
		g.log.Warn("texture preload interrupted", log.Error(err))
	}

	for _, sc := range cfg.Scenes {
		var opts []scene.Option
		if sc.Width > 0 && sc.Height > 0 {
			opts = append(opts, scene.WithSize(sc.Width, sc.Height))
		}
		if sc.Multiplier > 0 {
			opts = append(opts, scene.WithMultiplier(sc.Multiplier))
		}
		if sc.Graphic != nil {
			opts = append(opts, scene.WithGraphic(*sc.Graphic))
		}
		if sc.Physic != nil {
			opts = append(opts, scene.WithPhysic(*sc.Physic))
		}

		s := g.NewScene(sc.Name, sc.Map, opts...)
		for _, o := range sc.Objects {
			g.spawn(s, o)
		}
	}

	start := cfg.StartScene
	if start == "" && len(cfg.Scenes) > 0 {
		start = cfg.Scenes[0].Name
	}
	if start != "" {
		g.SetCurrentScene(start)
	}
}

func (g *Game) spawn(s *scene.Scene, o config.ObjectConfig) {
	opts := []scene.ObjectOption{
		scene.WithPosition(config.Vec3(o.Position, mgl64.Vec3{})),
		scene.WithRotation(config.Vec3(o.Rotation, mgl64.Vec3{})),
		scene.WithScale(config.Vec3(o.Scale, mgl64.Vec3{1, 1, 1})),
		scene.WithTexture(o.Texture),
		scene.Graphic(config.Bool(o.Graphic, true)),
		scene.Physic(config.Bool(o.Physic, true)),
	}
	fixed := config.Flags(o.Fixed)
	opts = append(opts, scene.WithFixed(fixed[0], fixed[1], fixed[2]))

	if o.Parent != "" {
		if parent, ok := s.Transform(o.Parent); ok {
			opts = append(opts, scene.WithParent(parent))
		} else {
			g.log.Warn("parent not found, object attached to the scene root",
				log.String("scene", s.Name()),
				log.String("name", o.Name),
				log.String("parent", o.Parent),
			)
		}
	}
	if o.Dynamic {
		opts = append(opts, scene.Dynamic(o.Weight))
	}
	if o.Collision {
		opts = append(opts, scene.WithCollision(o.CollisionWidth))
	}

	s.NewObject(o.Name, render.ParseType(o.Type), opts...)
}
