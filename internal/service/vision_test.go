package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	t.Run("plain lines in order", func(t *testing.T) {
		labels := parseLabels("tomato\nbasil\nmozzarella\n")
		assert.Equal(t, []string{"tomato", "basil", "mozzarella"}, labels)
	})

	t.Run("strips bullets and blanks", func(t *testing.T) {
		labels := parseLabels("- tomato\n\n* basil\n  \n")
		assert.Equal(t, []string{"tomato", "basil"}, labels)
	})

	t.Run("foodless image yields no labels", func(t *testing.T) {
		assert.Empty(t, parseLabels("NONE"))
		assert.Empty(t, parseLabels(""))
	})
}

// testPNG renders a small solid image for decode tests.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareImage(t *testing.T) {
	t.Run("small image passes through decode", func(t *testing.T) {
		data, err := prepareImage(testPNG(t, 32, 32))
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
	})

	t.Run("large image is downscaled", func(t *testing.T) {
		data, err := prepareImage(testPNG(t, 1024, 768))
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.LessOrEqual(t, img.Bounds().Dx(), maxVisionWidth)
		assert.LessOrEqual(t, img.Bounds().Dy(), maxVisionWidth)
	})

	t.Run("undecodable bytes fail", func(t *testing.T) {
		_, err := prepareImage([]byte("not an image"))
		assert.Error(t, err)
	})
}
