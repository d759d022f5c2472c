// Package cover conditions downloaded cover images before they are embedded
// into audio files.
package cover

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// ErrUnreadableImage is returned when the cover file cannot be read or decoded.
// The file is left untouched.
var ErrUnreadableImage = errors.New("unreadable image")

// Options bounds the embedded cover resolution.
type Options struct {
	MaxWidth  uint
	MaxHeight uint
	Quality   int // JPEG quality, 1-100
}

// DefaultOptions returns a 640x640 bound at JPEG quality 90.
func DefaultOptions() Options {
	return Options{MaxWidth: 640, MaxHeight: 640, Quality: 90}
}

// Result describes what Prepare did to the file.
type Result struct {
	Format  string // decoded format, "jpeg" or "png"
	Width   int
	Height  int
	Resized bool
	Size    int64 // file size after preparation
}

// Prepare downsamples the image at path in place when either dimension exceeds
// the bounds, preserving aspect ratio. Images within bounds are not rewritten.
func Prepare(path string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnreadableImage, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrUnreadableImage, filepath.Base(path), err)
	}

	bounds := img.Bounds()
	res := Result{
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Size:   int64(len(data)),
	}
	if uint(res.Width) <= opts.MaxWidth && uint(res.Height) <= opts.MaxHeight { //nolint:gosec // image dimensions are non-negative
		return res, nil
	}

	resized := toRGB(resize.Thumbnail(opts.MaxWidth, opts.MaxHeight, img, resize.Lanczos3))

	var buf bytes.Buffer
	if err := encode(&buf, resized, outputFormat(path, format), opts.Quality); err != nil {
		return res, fmt.Errorf("encode cover: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return res, err
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("write cover: %w", err)
	}

	b := resized.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()
	res.Resized = true
	res.Size = int64(buf.Len())
	return res, nil
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxWidth == 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxHeight == 0 {
		o.MaxHeight = d.MaxHeight
	}
	if o.Quality < 1 || o.Quality > 100 {
		o.Quality = d.Quality
	}
	return o
}

// outputFormat keeps the format implied by the file name so the embedded MIME
// type stays consistent with the extension.
func outputFormat(path, decoded string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	}
	return decoded
}

func encode(buf *bytes.Buffer, img image.Image, format string, quality int) error {
	if format == "png" {
		return png.Encode(buf, img)
	}
	return jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
}

// toRGB drops the alpha channel, keeping the straight color values.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, _ := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return out
}
