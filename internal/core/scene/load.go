package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/physics"
	"github.com/zeusync/matix/internal/core/render"
)

// Tiles spawn as pillars: raised by tileHeight and stretched by tileScale.
var (
	tileHeight = 3.0
	tileScale  = mgl64.Vec3{1, 5, 1}
)

// LoadFrom2DScene spawns one object per non-empty tile, named "i;j" and placed at (i, 3, j).
// The scene root moves to the tile origin and the physics grid takes the tile size.
// Tiles whose id is not in parts are skipped with a warning.
func (s *Scene) LoadFrom2DScene(tiles *level.Scene2D, parts *level.Parts) (spawned, skipped int) {
	ox, oz := tiles.Origin()
	s.root.SetPosition(mgl64.Vec3{ox, 0, oz})

	width, height := tiles.Size()
	if s.physic != nil {
		s.physic.SetSize(width, height)
		s.physic.SetOrigin(ox, oz)
	}

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			id := tiles.PartAt(i, j)
			part, spawn, known := parts.Lookup(id)
			if !known {
				s.ctx.Warn(engine.ErrUnknownTileID, "unknown part in map",
					log.String("scene", s.name),
					log.String("map", tiles.Path()),
					log.String("part", id.String()),
					log.Int("x", i),
					log.Int("z", j),
				)
				skipped++
				continue
			}
			if !spawn {
				continue
			}

			kind := Static()
			if !part.Static {
				kind = Dynamic(1)
			}
			s.NewObject(fmt.Sprintf("%d;%d", i, j), render.ParseType(part.Type),
				WithPosition(mgl64.Vec3{float64(i), tileHeight, float64(j)}),
				WithScale(tileScale),
				WithTexture(part.Texture),
				WithCollision(physics.DefaultHalfWidth),
				kind,
			)
			spawned++
		}
	}

	s.ctx.Publish(engine.EventSceneLoaded, s.name, engine.SceneLoaded{
		Scene:   s.name,
		MapPath: tiles.Path(),
		Objects: spawned,
		Skipped: skipped,
	})
	return spawned, skipped
}
