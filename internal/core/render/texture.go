package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/matix/internal/core/observability/log"
)

var ErrNoImages = errors.New("texture directory holds no images")

// Fallback is the colour of textures that could not be loaded.
var Fallback = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// decoders is keyed by extension. The tga package registers an empty magic
// number with the image package, which would claim every file, so image.Decode
// is never used.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Texture is a decoded image plus its average colour, which is all the
// text and flat-shaded renderers need.
type Texture struct {
	Path  string
	Image image.Image // nil when missing
	Color color.RGBA
}

// Missing reports whether the image could not be loaded.
func (t *Texture) Missing() bool { return t.Image == nil }

// IsImagePath reports whether p names a single image rather than a texture directory.
func IsImagePath(p string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(p))]
	return ok
}

// TextureCache loads every texture path once. A path with an image extension is
// one texture; any other path is a directory scanned recursively (one image per cube face).
type TextureCache struct {
	log     log.Log
	files   map[uint64]*Texture
	sets    map[uint64][]*Texture
	decoder func(path string) (image.Image, error)
}

func NewTextureCache(l log.Log) *TextureCache {
	return &TextureCache{
		log:     l.Named("textures"),
		files:   make(map[uint64]*Texture),
		sets:    make(map[uint64][]*Texture),
		decoder: decodeFile,
	}
}

// Resolve returns the textures of path, loading them on first use.
// Missing files and directories produce a warning and a single fallback texture.
func (c *TextureCache) Resolve(path string) []*Texture {
	key := xxhash.Sum64String(path)
	if set, ok := c.sets[key]; ok {
		return set
	}

	var set []*Texture
	if IsImagePath(path) {
		set = []*Texture{c.file(path)}
	} else {
		files, err := scanDir(path)
		if err != nil {
			c.log.Warn("texture directory unavailable", log.String("path", path), log.Error(err))
			set = []*Texture{{Path: path, Color: Fallback}}
		} else {
			set = make([]*Texture, 0, len(files))
			for _, f := range files {
				set = append(set, c.file(f))
			}
		}
	}

	c.sets[key] = set
	return set
}

// Preload decodes the images behind paths with at most workers decodes in
// flight and caches the ones that succeed. Failures are reported by Resolve.
func (c *TextureCache) Preload(ctx context.Context, paths []string, workers int) error {
	var files []string
	seen := make(map[uint64]bool)
	for _, p := range paths {
		candidates := []string{p}
		if !IsImagePath(p) {
			var err error
			if candidates, err = scanDir(p); err != nil {
				continue
			}
		}
		for _, f := range candidates {
			key := xxhash.Sum64String(f)
			if _, cached := c.files[key]; cached || seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, f)
		}
	}

	images := make([]image.Image, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if img, err := c.decoder(f); err == nil {
				images[i] = img
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	loaded := 0
	for i, img := range images {
		if img == nil {
			continue
		}
		c.files[xxhash.Sum64String(files[i])] = &Texture{Path: files[i], Image: img, Color: averageColor(img)}
		loaded++
	}
	c.log.Debug("textures preloaded", log.Int("files", len(files)), log.Int("loaded", loaded))
	return nil
}

// Len is the number of distinct image files loaded so far.
func (c *TextureCache) Len() int { return len(c.files) }

func (c *TextureCache) file(path string) *Texture {
	key := xxhash.Sum64String(path)
	if t, ok := c.files[key]; ok {
		return t
	}

	t := &Texture{Path: path, Color: Fallback}
	img, err := c.decoder(path)
	if err != nil {
		c.log.Warn("texture unavailable", log.String("path", path), log.Error(err))
	} else {
		t.Image = img
		t.Color = averageColor(img)
	}
	c.files[key] = t
	return t
}

func decodeFile(path string) (image.Image, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("decode %s: %w", path, image.ErrFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func scanDir(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsImagePath(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	return files, nil
}

// Average is the mean colour of a texture set, Fallback for an empty one.
func Average(textures []*Texture) color.RGBA {
	if len(textures) == 0 {
		return Fallback
	}
	var sr, sg, sb int
	for _, t := range textures {
		sr += int(t.Color.R)
		sg += int(t.Color.G)
		sb += int(t.Color.B)
	}
	n := len(textures)
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 255}
}

// averageColor downsamples the image to a single pixel.
func averageColor(img image.Image) color.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst.RGBAAt(0, 0)
}
