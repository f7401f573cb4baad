package ratewatch

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// The number of recent update outcomes tracked for diagnostics.
const outcomeWindowSize = 100

// outcomeStats records whether recent updates were accepted or skipped, using
// a BitSet as a rolling window of outcomes.
//
// This type is not concurrency safe.
type outcomeStats struct {
	bitSet *bitset.BitSet
	size   uint

	// Index to write next entry to
	currentIndex uint
	occupiedBits uint
	accepted     uint
	skipped      uint
}

func newOutcomeStats(size uint) *outcomeStats {
	return &outcomeStats{
		bitSet: bitset.New(size),
		size:   size,
	}
}

// setNext sets the value of the next bit in the bitset, returning the previous
// value, else -1 if no previous value was set for the bit.
//
// value is true if the update was accepted, false if it was skipped.
func (s *outcomeStats) setNext(value bool) int {
	previousValue := -1
	if s.occupiedBits < s.size {
		s.occupiedBits++
	} else {
		if s.bitSet.Test(s.currentIndex) {
			previousValue = 1
		} else {
			previousValue = 0
		}
	}

	s.bitSet.SetTo(s.currentIndex, value)
	s.currentIndex = s.indexAfter(s.currentIndex)

	if value {
		if previousValue != 1 {
			s.accepted++
		}
		if previousValue == 0 {
			s.skipped--
		}
	} else {
		if previousValue != 0 {
			s.skipped++
		}
		if previousValue == 1 {
			s.accepted--
		}
	}

	return previousValue
}

func (s *outcomeStats) indexAfter(index uint) uint {
	if index == s.size-1 {
		return 0
	}
	return index + 1
}

func (s *outcomeStats) updateCount() uint {
	return s.occupiedBits
}

func (s *outcomeStats) acceptedCount() uint {
	return s.accepted
}

func (s *outcomeStats) skippedCount() uint {
	return s.skipped
}

// acceptedRate returns the percentage of tracked updates that were accepted,
// else 0 if no updates are tracked yet.
func (s *outcomeStats) acceptedRate() uint {
	if s.occupiedBits == 0 {
		return 0
	}
	return uint(math.Round(float64(s.accepted) / float64(s.occupiedBits) * 100.0))
}

func (s *outcomeStats) recordAccepted() {
	s.setNext(true)
}

func (s *outcomeStats) recordSkipped() {
	s.setNext(false)
}

func (s *outcomeStats) reset() {
	s.bitSet.ClearAll()
	s.currentIndex = 0
	s.occupiedBits = 0
	s.accepted = 0
	s.skipped = 0
}
