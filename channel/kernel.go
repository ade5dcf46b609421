package channel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const minChunk = 1 << 14

// Mask returns a copy of samples where every sample not belonging to target
// is zero. samples is an interleaved buffer with channels values per pixel.
func Mask(samples []uint8, channels, target int) []uint8 {
	out := make([]uint8, len(samples))
	copy(out, samples)
	maskRange(out, 0, len(out), channels, target)
	return out
}

// Apply masks samples in place, splitting the work over up to workers
// goroutines. workers <= 0 means GOMAXPROCS.
func Apply(ctx context.Context, samples []uint8, channels, target, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(samples) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(samples); start += chunk {
		start, end := start, min(start+chunk, len(samples))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			maskRange(samples, start, end, channels, target)
			return nil
		})
	}
	return g.Wait()
}

func maskRange(samples []uint8, start, end, channels, target int) {
	for i := start; i < end; i++ {
		if i%channels != target {
			samples[i] = 0
		}
	}
}
