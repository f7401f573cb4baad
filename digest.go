package ratewatch

import (
	"math"

	"github.com/influxdata/tdigest"
)

// residualDigest tracks the distribution of absolute fit residuals at the
// newest sample, as a measure of how well the fitted line describes the
// recent history. Only finite residuals are recorded, so degenerate fits
// never distort the digest.
//
// This type is not concurrency safe.
type residualDigest struct {
	size uint
	*tdigest.TDigest
}

func newResidualDigest() *residualDigest {
	return &residualDigest{TDigest: tdigest.NewWithCompression(100)}
}

func (d *residualDigest) add(residual float64) {
	if math.IsNaN(residual) || math.IsInf(residual, 0) {
		return
	}
	d.TDigest.Add(math.Abs(residual), 1)
	d.size++
}

// quantile returns the q quantile of recorded residuals, else NaN if none
// have been recorded.
func (d *residualDigest) quantile(q float64) float64 {
	if d.size == 0 {
		return math.NaN()
	}
	return d.TDigest.Quantile(q)
}

func (d *residualDigest) reset() {
	d.TDigest.Reset()
	d.size = 0
}
