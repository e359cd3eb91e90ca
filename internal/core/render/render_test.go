package render

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/transform"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		str     string
		texture string
	}{
		{"", Type{Kind: KindCube, Mesh: "cube"}, "cube", "textures/unknow"},
		{"Cube", Type{Kind: KindCube, Mesh: "cube"}, "cube", "textures/unknow"},
		{"test", Type{Kind: KindTest, Mesh: "cube"}, "test", "textures/unknow"},
		{"player", Type{Kind: KindPlayer}, "player", "textures/unknow.png"},
		{" chair ", Type{Kind: KindPrimitive, Mesh: "chair"}, "chair", "textures/unknow.png"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
			assert.Equal(t, tt.texture, got.DefaultTexture())
		})
	}
}

func TestNopRenderer(t *testing.T) {
	n := NewNop()
	arena := transform.NewArena()

	d := n.Register("crate", arena.NewRoot(mgl64.Vec3{}), ParseType("cube"), nil)
	d.Update()
	d.Render()
	d.Destroy()
	n.Clear()
	n.Present()

	assert.Equal(t, KindCube, n.Registered["crate"].Kind)
	assert.Equal(t, 1, n.Frames)
	assert.NoError(t, n.Close())
}

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestTextureCacheSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writePNG(t, path, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	cache := NewTextureCache(log.NewNop())
	set := cache.Resolve(path)

	require.Len(t, set, 1)
	assert.False(t, set[0].Missing())
	assert.Equal(t, color.RGBA{R: 200, G: 10, B: 10, A: 255}, set[0].Color)

	again := cache.Resolve(path)
	assert.Same(t, set[0], again[0])
	assert.Equal(t, 1, cache.Len())
}

func TestTextureCacheDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), color.White)
	writePNG(t, filepath.Join(dir, "a.png"), color.Black)
	writePNG(t, filepath.Join(dir, "sides", "c.png"), color.White)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	cache := NewTextureCache(log.NewNop())
	set := cache.Resolve(dir)

	require.Len(t, set, 3)
	assert.Equal(t, filepath.Join(dir, "a.png"), set[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.png"), set[1].Path)
	assert.Equal(t, filepath.Join(dir, "sides", "c.png"), set[2].Path)

	single := cache.Resolve(filepath.Join(dir, "a.png"))
	assert.Same(t, set[0], single[0], "files are shared between sets")
}

func TestTextureCacheMissing(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cache := NewTextureCache(log.NewWithCore(core))
	dir := t.TempDir()

	file := cache.Resolve(filepath.Join(dir, "nope.png"))
	require.Len(t, file, 1)
	assert.True(t, file[0].Missing())
	assert.Equal(t, Fallback, file[0].Color)

	folder := cache.Resolve(filepath.Join(dir, "nope"))
	require.Len(t, folder, 1)
	assert.True(t, folder[0].Missing())

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	assert.Len(t, cache.Resolve(empty), 1)

	assert.Equal(t, 1, logs.FilterMessage("texture unavailable").Len())
	assert.Equal(t, 2, logs.FilterMessage("texture directory unavailable").Len())
}

func TestTextureCachePreload(t *testing.T) {
	dir := t.TempDir()
	wall := filepath.Join(dir, "wall.png")
	writePNG(t, wall, color.White)
	writePNG(t, filepath.Join(dir, "crate", "top.png"), color.Black)
	writePNG(t, filepath.Join(dir, "crate", "side.png"), color.Black)
	missing := filepath.Join(dir, "nope.png")

	core, logs := observer.New(zap.DebugLevel)
	cache := NewTextureCache(log.NewWithCore(core))
	var decodes atomic.Int32
	cache.decoder = func(path string) (image.Image, error) {
		decodes.Add(1)
		return decodeFile(path)
	}

	paths := []string{wall, filepath.Join(dir, "crate"), wall, missing, filepath.Join(dir, "gone")}
	require.NoError(t, cache.Preload(context.Background(), paths, 2))
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, int32(4), decodes.Load(), "each file once, the missing one included")

	require.Len(t, cache.Resolve(filepath.Join(dir, "crate")), 2)
	assert.False(t, cache.Resolve(wall)[0].Missing())
	assert.Equal(t, int32(4), decodes.Load(), "preloaded files are not decoded again")

	assert.True(t, cache.Resolve(missing)[0].Missing())
	assert.Equal(t, 1, logs.FilterMessage("texture unavailable").Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	writePNG(t, filepath.Join(dir, "late.png"), color.White)
	assert.ErrorIs(t, cache.Preload(ctx, []string{filepath.Join(dir, "late.png")}, 1), context.Canceled)
}

func TestIsImagePath(t *testing.T) {
	for _, p := range []string{"a.png", "b.JPG", "c.jpeg", "d.bmp", "e.webp", "f.tga"} {
		assert.True(t, IsImagePath(p), p)
	}
	assert.False(t, IsImagePath("textures/unknow"))
	assert.False(t, IsImagePath("map.wad"))
}

func TestDecodeFileByExtension(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 200, G: 10, B: 10, A: 255}

	pngPath := filepath.Join(dir, "wall.png")
	writePNG(t, pngPath, red)

	tgaPath := filepath.Join(dir, "wall.tga")
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
		}
	}
	f, err := os.Create(tgaPath)
	require.NoError(t, err)
	require.NoError(t, tga.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := decodeFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, red, color.RGBAModel.Convert(img.At(1, 1)))

	img, err = decodeFile(tgaPath)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{R: 10, G: 200, B: 10, A: 255}, color.RGBAModel.Convert(img.At(0, 1)))

	_, err = decodeFile(filepath.Join(dir, "map.wad"))
	assert.ErrorIs(t, err, image.ErrFormat)

	cache := NewTextureCache(log.NewNop())
	assert.Equal(t, red, cache.Resolve(pngPath)[0].Color)
	assert.Equal(t, color.RGBA{R: 10, G: 200, B: 10, A: 255}, cache.Resolve(tgaPath)[0].Color)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, Fallback, Average(nil))
	got := Average([]*Texture{
		{Color: color.RGBA{R: 100, A: 255}},
		{Color: color.RGBA{B: 50, A: 255}},
	})
	assert.Equal(t, color.RGBA{R: 50, B: 25, A: 255}, got)
}
