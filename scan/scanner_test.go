package scan

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewatch-go/ratewatch"
)

func TestScannerDrivesEstimators(t *testing.T) {
	est, err := ratewatch.NewBuilder().
		WithWindows(ratewatch.Window{Size: 4, Threshold: 100}).
		Build()
	require.NoError(t, err)

	var mtx sync.Mutex
	var results []ratewatch.Result
	var value atomic.Int64

	scanner := NewScanner(time.Millisecond).
		OnResult(func(name string, result ratewatch.Result, err error) {
			assert.Equal(t, "signal", name)
			assert.NoError(t, err)
			mtx.Lock()
			defer mtx.Unlock()
			results = append(results, result)
		}).
		Add("signal", func(ctx context.Context) (float64, int) {
			return float64(value.Add(1)), 0
		}, est)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, scanner.Run(ctx))

	mtx.Lock()
	defer mtx.Unlock()
	require.NotEmpty(t, results)
	last := results[len(results)-1]
	assert.Equal(t, min(len(results), est.Capacity()), last.SampleCount)
}

func TestScannerForwardsSkips(t *testing.T) {
	est, err := ratewatch.NewBuilder().Build()
	require.NoError(t, err)

	var skips atomic.Int64
	scanner := NewScanner(time.Millisecond).
		OnResult(func(name string, result ratewatch.Result, err error) {
			if err != nil {
				assert.ErrorIs(t, err, ratewatch.ErrStaleReading)
				skips.Add(1)
			}
		}).
		Add("stale", func(ctx context.Context) (float64, int) {
			return 1.0, 3
		}, est)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, scanner.Run(ctx))

	assert.Greater(t, skips.Load(), int64(0))
	assert.Equal(t, 0, est.SampleCount())
}
