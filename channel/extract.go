// Package channel isolates a single color channel of an image.
package channel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder
)

var (
	// ErrDecode is returned when the input is not a supported image.
	ErrDecode = errors.New("error decoding image")
	// ErrChannel is returned for a target channel the image doesn't have.
	ErrChannel = errors.New("invalid target channel")
)

// Result is an encoded image with a single channel left.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	Channels int
}

// Resolution formats the size as "WxH".
func (r *Result) Resolution() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

type options struct {
	format  imaging.Format
	quality int
	workers int
}

// Option configures Extract.
type Option func(*options)

// WithFormat sets the output format. Defaults to JPEG.
func WithFormat(f imaging.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithJPEGQuality sets the JPEG quality. Defaults to 100.
func WithJPEGQuality(q int) Option {
	return func(o *options) {
		o.quality = q
	}
}

// WithWorkers bounds the number of goroutines running the kernel.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Extract decodes data, zeroes every channel but target and encodes the result.
// Opaque images have 3 channels (R, G, B), others 4 (R, G, B, A).
func Extract(ctx context.Context, data []byte, target int, opts ...Option) (*Result, error) {
	o := options{format: imaging.JPEG, quality: 100}
	for _, opt := range opts {
		opt(&o)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	src := imaging.Clone(img)

	channels := 4
	if src.Opaque() {
		channels = 3
	}
	if target < 0 || target >= channels {
		return nil, fmt.Errorf("%w: %d, image has %d channels", ErrChannel, target, channels)
	}

	samples := flatten(src, channels)
	if err := Apply(ctx, samples, channels, target, o.workers); err != nil {
		return nil, err
	}
	// JPEG has no alpha: the color samples are kept as they are.
	dst := unflatten(samples, src.Rect.Dx(), src.Rect.Dy(), channels, o.format != imaging.JPEG)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, dst, o.format, imaging.JPEGQuality(o.quality)); err != nil {
		return nil, fmt.Errorf("error encoding image: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Width:    src.Rect.Dx(),
		Height:   src.Rect.Dy(),
		Channels: channels,
	}, nil
}

func flatten(img *image.NRGBA, channels int) []uint8 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]uint8, 0, w*h*channels)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4:x*4+channels]...)
		}
	}
	return out
}

func unflatten(samples []uint8, w, h, channels int, keepAlpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, p := 0, 0; i < w*h; i, p = i+1, p+channels {
		px := img.Pix[i*4 : i*4+4]
		copy(px, samples[p:p+3])
		px[3] = 255
		if channels == 4 && keepAlpha {
			px[3] = samples[p+3]
		}
	}
	return img
}
