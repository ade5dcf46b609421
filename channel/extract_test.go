package channel

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, img image.Image, f imaging.Format) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, imaging.Encode(buf, img, f))
	return buf.Bytes()
}

func opaqueImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: 200, B: uint8(60 * y), A: 255})
		}
	}
	return img
}

func TestExtractOpaque(t *testing.T) {
	for target := 0; target < 3; target++ {
		res, err := Extract(context.Background(), encode(t, opaqueImage(), imaging.PNG), target, WithFormat(imaging.PNG))
		require.NoError(t, err)
		assert.Equal(t, 3, res.Channels)
		assert.Equal(t, "4x3", res.Resolution())

		out, err := imaging.Decode(bytes.NewReader(res.Data))
		require.NoError(t, err)
		got := imaging.Clone(out)

		src := opaqueImage()
		for i := 0; i < len(src.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				want := uint8(0)
				if c == target {
					want = src.Pix[i+c]
				}
				assert.Equal(t, want, got.Pix[i+c], "target %d pixel %d channel %d", target, i/4, c)
			}
			assert.Equal(t, uint8(255), got.Pix[i+3])
		}
	}
}

func TestExtractAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 4, G: 5, B: 6, A: 255})

	res, err := Extract(context.Background(), encode(t, img, imaging.PNG), 3, WithFormat(imaging.PNG))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Channels)

	out, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 128, 0, 0, 0, 255}, imaging.Clone(out).Pix)
}

func TestExtractJPEG(t *testing.T) {
	res, err := Extract(context.Background(), encode(t, opaqueImage(), imaging.JPEG), 0)
	require.NoError(t, err)

	out, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Bounds().Dx())
	assert.Equal(t, 3, out.Bounds().Dy())
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(context.Background(), []byte("not an image"), 0)
	assert.ErrorIs(t, err, ErrDecode)

	data := encode(t, opaqueImage(), imaging.PNG)
	for _, target := range []int{-1, 3} {
		_, err := Extract(context.Background(), data, target)
		assert.ErrorIs(t, err, ErrChannel, "target %d", target)
	}
}
