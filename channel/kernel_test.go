package channel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	samples := []uint8{10, 20, 30, 40, 50, 60, 70}

	tcs := []struct {
		name     string
		channels int
		target   int
		want     []uint8
	}{
		{name: "rgb red", channels: 3, target: 0, want: []uint8{10, 0, 0, 40, 0, 0, 70}},
		{name: "rgb green", channels: 3, target: 1, want: []uint8{0, 20, 0, 0, 50, 0, 0}},
		{name: "rgba alpha", channels: 4, target: 3, want: []uint8{0, 0, 0, 40, 0, 0, 0}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Mask(samples, tc.channels, tc.target))
		})
	}
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60, 70}, samples, "Mask must not modify its input")
}

func TestApplyMatchesMask(t *testing.T) {
	samples := make([]uint8, 3*minChunk+7)
	for i := range samples {
		samples[i] = uint8(i%251) + 1
	}
	want := Mask(samples, 3, 2)

	require.NoError(t, Apply(context.Background(), samples, 3, 2, 4))
	assert.Equal(t, want, samples)
}

func TestApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Apply(ctx, make([]uint8, 10), 3, 0, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
