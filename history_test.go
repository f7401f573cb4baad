package ratewatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tsec returns an instant the given number of seconds past the epoch.
func tsec(seconds float64) time.Time {
	return time.Unix(0, int64(seconds*float64(time.Second)))
}

func TestSampleHistoryRetention(t *testing.T) {
	h := newSampleHistory(10)

	t.Run("count tracks ingests below capacity", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			h.ingest(float64(i), tsec(float64(i)), 1)
		}
		assert.Equal(t, 4, h.count())
	})

	t.Run("count is capped at capacity", func(t *testing.T) {
		for i := 4; i < 25; i++ {
			h.ingest(float64(i), tsec(float64(i)), 1)
		}
		assert.Equal(t, 10, h.count())
	})

	t.Run("oldest samples are evicted first", func(t *testing.T) {
		assert.Equal(t, 15.0, h.at(0).value)
		assert.Equal(t, tsec(15), h.at(0).at)
		assert.Equal(t, 24.0, h.at(9).value)
		assert.Equal(t, tsec(24), h.at(9).at)
	})
}

func TestSampleHistoryDecimation(t *testing.T) {
	h := newSampleHistory(10)

	var appended []bool
	for i, v := range []float64{1, 2, 3, 10, 20, 30} {
		appended = append(appended, h.ingest(v, tsec(float64(i)), 3))
	}

	t.Run("one sample per group of factor raw values", func(t *testing.T) {
		assert.Equal(t, []bool{false, false, true, false, false, true}, appended)
		assert.Equal(t, 2, h.count())
	})

	t.Run("sample value is the group mean", func(t *testing.T) {
		assert.Equal(t, 2.0, h.at(0).value)
		assert.Equal(t, 20.0, h.at(1).value)
	})

	t.Run("sample is stamped with the last raw value's time", func(t *testing.T) {
		assert.Equal(t, tsec(2), h.at(0).at)
		assert.Equal(t, tsec(5), h.at(1).at)
	})
}

func TestSampleHistoryDecimationFactorOne(t *testing.T) {
	h := newSampleHistory(10)

	require.True(t, h.ingest(5, tsec(0), 1))
	assert.Equal(t, 5.0, h.at(0).value)
	assert.Equal(t, 0, h.decimateCount)
	assert.Equal(t, 0.0, h.decimateTotal)
}

// A factor change while the accumulator is partially filled is not special
// cased: the pending sum and count continue under the new factor.
func TestSampleHistoryDecimationFactorChange(t *testing.T) {
	h := newSampleHistory(10)

	h.ingest(1, tsec(0), 4)
	h.ingest(2, tsec(1), 4)
	assert.Equal(t, 0, h.count())

	h.ingest(3, tsec(2), 3)
	require.Equal(t, 1, h.count())
	assert.Equal(t, 2.0, h.at(0).value)
	assert.Equal(t, 0, h.decimateCount)
}

func TestSampleHistoryReset(t *testing.T) {
	h := newSampleHistory(10)

	t.Run("reset of an empty history is a no-op", func(t *testing.T) {
		h.reset()
		assert.Equal(t, 0, h.count())
	})

	t.Run("reset clears samples and the pending accumulator", func(t *testing.T) {
		h.ingest(1, tsec(0), 1)
		h.ingest(2, tsec(1), 3)
		require.Equal(t, 1, h.count())
		require.Equal(t, 1, h.decimateCount)

		h.reset()
		assert.Equal(t, 0, h.count())
		assert.Equal(t, 0, h.decimateCount)
		assert.Equal(t, 0.0, h.decimateTotal)
	})

	t.Run("history refills normally after a reset", func(t *testing.T) {
		h.ingest(7, tsec(2), 1)
		require.Equal(t, 1, h.count())
		assert.Equal(t, 7.0, h.at(0).value)
	})
}
