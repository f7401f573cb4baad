package ratewatch

// fitWindow computes the least squares slope and intercept over the most
// recent n samples of h. Sample times are taken relative to the newest
// selected sample, so the intercept directly estimates the signal value now
// and the time to reach a threshold needs no further extrapolation.
//
// Fewer than two selected samples yield a defined result: an empty selection
// fits (0, 0) and a single sample fits (0, value). A zero denominator, e.g.
// all selected samples sharing one timestamp, divides through to NaN or
// infinity under standard floating point rules; that result is propagated,
// not masked.
func fitWindow(h *sampleHistory, n int) (slope, intercept float64) {
	count := h.count()
	if n > count {
		n = count
	}
	if n < 1 {
		return 0, 0
	}

	newest := h.at(count - 1)
	if n < 2 {
		return 0, newest.value
	}

	var sx, sy, sxx, sxy float64
	for i := count - n; i < count; i++ {
		s := h.at(i)
		x := s.at.Sub(newest.at).Seconds()
		y := s.value
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	nf := float64(n)
	delta := nf*sxx - sx*sx
	slope = (nf*sxy - sx*sy) / delta
	intercept = (sy*sxx - sx*sxy) / delta
	return slope, intercept
}
