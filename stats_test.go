package ratewatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeStats(t *testing.T) {
	s := newOutcomeStats(5)

	t.Run("empty window reports zero", func(t *testing.T) {
		assert.Equal(t, uint(0), s.updateCount())
		assert.Equal(t, uint(0), s.acceptedRate())
	})

	t.Run("counts accepted and skipped outcomes", func(t *testing.T) {
		s.recordAccepted()
		s.recordAccepted()
		s.recordSkipped()
		assert.Equal(t, uint(3), s.updateCount())
		assert.Equal(t, uint(2), s.acceptedCount())
		assert.Equal(t, uint(1), s.skippedCount())
		assert.Equal(t, uint(67), s.acceptedRate())
	})

	t.Run("old outcomes roll out of a full window", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			s.recordAccepted()
		}
		assert.Equal(t, uint(5), s.updateCount())
		assert.Equal(t, uint(0), s.skippedCount())
		assert.Equal(t, uint(100), s.acceptedRate())

		s.recordSkipped()
		assert.Equal(t, uint(5), s.updateCount())
		assert.Equal(t, uint(1), s.skippedCount())
		assert.Equal(t, uint(80), s.acceptedRate())
	})

	t.Run("reset clears the window", func(t *testing.T) {
		s.reset()
		assert.Equal(t, uint(0), s.updateCount())
		assert.Equal(t, uint(0), s.acceptedCount())
		assert.Equal(t, uint(0), s.skippedCount())
	})
}
