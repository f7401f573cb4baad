package ratewatch

import "time"

// sample is a single retained measurement. Immutable once stored.
type sample struct {
	at    time.Time
	value float64
}

// sampleHistory is a fixed capacity, time ordered buffer of samples with a
// decimation front-end. Samples are held oldest first in a head indexed
// circular buffer, so eviction overwrites the oldest slot without shifting.
// The buffer is allocated once and never resized.
//
// This type is not concurrency safe.
type sampleHistory struct {
	samples []sample
	head    int // index of the oldest sample
	size    int

	// Pending decimation accumulator
	decimateCount int
	decimateTotal float64
}

func newSampleHistory(capacity int) *sampleHistory {
	return &sampleHistory{samples: make([]sample, capacity)}
}

// ingest folds value into the pending decimation accumulator and, once factor
// raw values have accumulated, appends one aggregate sample stamped with the
// current update's time, evicting the oldest sample if the buffer is full.
// With a factor of 1 the raw value is retained as-is. Returns whether a sample
// was appended.
//
// A factor change while the accumulator is partially filled is not special
// cased: the pending sum and count simply continue under the new factor.
func (h *sampleHistory) ingest(value float64, at time.Time, factor int) bool {
	if factor < 1 {
		factor = 1
	}

	h.decimateCount++
	h.decimateTotal += value
	if h.decimateCount < factor {
		return false
	}

	aggregate := value
	if factor != 1 {
		aggregate = h.decimateTotal / float64(factor)
	}
	h.decimateCount = 0
	h.decimateTotal = 0

	if h.size < len(h.samples) {
		h.samples[(h.head+h.size)%len(h.samples)] = sample{at: at, value: aggregate}
		h.size++
	} else {
		h.samples[h.head] = sample{at: at, value: aggregate}
		h.head = (h.head + 1) % len(h.samples)
	}
	return true
}

// reset empties the history and clears the pending decimation accumulator.
// The capacity and the underlying buffer are untouched.
func (h *sampleHistory) reset() {
	h.head = 0
	h.size = 0
	h.decimateCount = 0
	h.decimateTotal = 0
}

// count returns the number of retained samples.
func (h *sampleHistory) count() int {
	return h.size
}

// at returns the i-th retained sample, oldest first.
func (h *sampleHistory) at(i int) sample {
	return h.samples[(h.head+i)%len(h.samples)]
}
