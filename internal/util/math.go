package util

import "cmp"

// Clamp returns value limited to the inclusive range [low, high].
func Clamp[T cmp.Ordered](value, low, high T) T {
	return max(low, min(value, high))
}

// Smooth returns oldValue decayed towards newValue by the smoothing factor:
//
//	(oldValue * (1 - smoothingFactor)) + (newValue * smoothingFactor)
func Smooth(oldValue, newValue, smoothingFactor float64) float64 {
	return (oldValue * (1 - smoothingFactor)) + (newValue * smoothingFactor)
}
