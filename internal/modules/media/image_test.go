package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emlakpro/core/internal/pkg/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	opts := NormalizeOptions{MaxPixelEdge: 8000, MaxEdge: 1920, JPEGQuality: 82}

	t.Run("small image re-encoded as jpeg without resize", func(t *testing.T) {
		out, ct, err := Normalize(pngBytes(t, 640, 480), opts)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", ct)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 640, cfg.Width)
		assert.Equal(t, 480, cfg.Height)
	})

	t.Run("oversized image downscaled preserving aspect", func(t *testing.T) {
		out, _, err := Normalize(pngBytes(t, 3840, 1920), opts)
		require.NoError(t, err)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 1920, cfg.Width)
		assert.Equal(t, 960, cfg.Height)
	})

	t.Run("too large on one edge rejected", func(t *testing.T) {
		small := NormalizeOptions{MaxPixelEdge: 100, MaxEdge: 64, JPEGQuality: 82}
		_, _, err := Normalize(pngBytes(t, 50, 150), small)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, _, err := Normalize([]byte("not an image"), opts)
		assert.True(t, apperr.IsValidation(err))
	})
}
