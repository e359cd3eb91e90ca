// Package minimap exports a top-down WebP snapshot of a level.
package minimap

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/core/scene"
)

// DefaultCellPixels is the side of one tile in the exported image.
const DefaultCellPixels = 8

var (
	Floor   = color.RGBA{R: 24, G: 24, B: 32, A: 255}
	Unknown = render.Fallback
)

// Build paints one pixel per tile and scales it up by cellPixels.
// Parts take the average colour of their textures; unassigned ids are Unknown.
func Build(tiles *level.Scene2D, parts *level.Parts, textures *render.TextureCache, cellPixels int) *image.RGBA {
	if cellPixels <= 0 {
		cellPixels = DefaultCellPixels
	}
	width, height := tiles.Size()

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			part, spawn, known := parts.Lookup(tiles.PartAt(x, z))
			c := Floor
			switch {
			case !known:
				c = Unknown
			case spawn:
				c = render.Average(textures.Resolve(part.Texture))
			}
			small.SetRGBA(x, z, c)
		}
	}

	big := image.NewRGBA(image.Rect(0, 0, width*cellPixels, height*cellPixels))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
	return big
}

// Encode writes img as lossless WebP.
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("encode minimap: %w", err)
	}
	return nil
}

// Writer saves a minimap per loaded scene under dir as <scene>.webp.
type Writer struct {
	dir        string
	cellPixels int
	ctx        *engine.Context
	log        log.Log
}

func NewWriter(ctx *engine.Context, dir string, cellPixels int) *Writer {
	return &Writer{
		dir:        dir,
		cellPixels: cellPixels,
		ctx:        ctx,
		log:        ctx.Log.Named("minimap"),
	}
}

// Path is where the minimap of the named scene is written.
func (w *Writer) Path(sceneName string) string {
	return filepath.Join(w.dir, sceneName+".webp")
}

// Write has the shape of a map loaded hook. Failures are warnings.
func (w *Writer) Write(s *scene.Scene, tiles *level.Scene2D) {
	path := w.Path(s.Name())
	if err := w.save(path, Build(tiles, w.ctx.Parts, w.ctx.Textures, w.cellPixels)); err != nil {
		w.log.Warn("minimap not written", log.String("scene", s.Name()), log.String("path", path), log.Error(err))
		return
	}
	w.log.Info("minimap written", log.String("scene", s.Name()), log.String("path", path))
}

func (w *Writer) save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
