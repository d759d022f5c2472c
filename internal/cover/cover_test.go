package cover

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 200})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if filepath.Ext(path) == ".png" {
		require.NoError(t, png.Encode(f, img))
	} else {
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 95}))
	}
}

func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg, format
}

func TestPrepare_DownsamplesPreservingAspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	writeImage(t, path, 1280, 640)

	res, err := Prepare(path, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, res.Resized)
	assert.Equal(t, 640, res.Width)
	assert.Equal(t, 320, res.Height)

	cfg, format := decodeConfig(t, path)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 320, cfg.Height)
}

func TestPrepare_PNGStaysPNGWithoutAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	writeImage(t, path, 200, 400)

	res, err := Prepare(path, Options{MaxWidth: 100, MaxHeight: 100})
	require.NoError(t, err)
	assert.True(t, res.Resized)
	assert.Equal(t, 50, res.Width)
	assert.Equal(t, 100, res.Height)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	_, _, _, a := img.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), a, "alpha channel should be dropped")
}

func TestPrepare_WithinBoundsIsUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	writeImage(t, path, 300, 300)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	res, err := Prepare(path, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Resized)
	assert.Equal(t, 300, res.Width)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPrepare_UnreadableImage(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "cover.jpg")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	_, err := Prepare(garbage, DefaultOptions())
	require.ErrorIs(t, err, ErrUnreadableImage)

	data, err := os.ReadFile(garbage)
	require.NoError(t, err)
	assert.Equal(t, "not an image", string(data), "file must be left untouched")

	_, err = Prepare(filepath.Join(dir, "missing.jpg"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestPrepare_KeepsFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	writeImage(t, path, 1000, 1000)
	require.NoError(t, os.Chmod(path, 0o640))

	_, err := Prepare(path, DefaultOptions())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestOptions_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultOptions(), Options{}.withDefaults())
	assert.Equal(t, Options{MaxWidth: 100, MaxHeight: 640, Quality: 90}, Options{MaxWidth: 100, Quality: 400}.withDefaults())
}
