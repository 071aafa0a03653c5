package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/emlakpro/core/internal/pkg/apperr"
)

// NormalizeOptions bounds the re-encode pipeline.
type NormalizeOptions struct {
	MaxPixelEdge int // reject images larger than this on either edge
	MaxEdge      int // downscale so the longer edge fits this
	JPEGQuality  int
}

// Normalize validates dimensions, downscales oversized images and
// re-encodes everything as JPEG. The returned content type is always
// image/jpeg.
func Normalize(data []byte, opts NormalizeOptions) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperr.Validation("file", "Geçersiz görsel dosyası")
	}
	if cfg.Width > opts.MaxPixelEdge || cfg.Height > opts.MaxPixelEdge {
		return nil, "", apperr.Validation("file",
			fmt.Sprintf("Görsel boyutu en fazla %dx%d piksel olabilir", opts.MaxPixelEdge, opts.MaxPixelEdge))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperr.Validation("file", "Geçersiz görsel dosyası")
	}

	if w, h := cfg.Width, cfg.Height; w > opts.MaxEdge || h > opts.MaxEdge {
		img = downscale(img, opts.MaxEdge)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func downscale(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var nw, nh int
	if w >= h {
		nw = maxEdge
		nh = h * maxEdge / w
	} else {
		nh = maxEdge
		nw = w * maxEdge / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
