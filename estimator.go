package ratewatch

import (
	"log/slog"
	"math"
	"time"

	"github.com/ratewatch-go/ratewatch/internal/util"
)

// Estimator tracks one scalar signal and estimates its rate of change and the
// projected time until it crosses each configured threshold.
//
// An Estimator owns its sample history exclusively. It performs no internal
// locking: the host must invoke Process for a given instance strictly
// serially. This type is not concurrency safe.
type Estimator interface {
	// Process ingests one update and re-evaluates every window, returning the
	// new output vector. When the update is skipped the estimator state is
	// left untouched and the previous result is returned alongside one of
	// ErrStaleReading, ErrSampleNotFinite, or ErrNotInitialized; the previous
	// result remains authoritative for the host.
	//
	// Rate and time-to-limit outputs may be NaN or infinite for degenerate
	// fits or a zero rate of change; these are reported as-is, never masked.
	Process(in Input) (Result, error)

	// Reset clears the sample history, the pending decimation accumulator,
	// and the fit diagnostics. The history capacity is unchanged. Resetting
	// an already empty estimator is a no-op.
	Reset()

	// SampleCount returns the number of samples currently retained.
	SampleCount() int

	// Capacity returns the fixed history capacity.
	Capacity() int

	// LastResult returns the output vector of the most recent accepted
	// update, else the zero Result if none has been accepted yet.
	LastResult() Result

	// SmoothedRate returns a moving average of the primary window's unscaled
	// rate, which damps the noise of small fit windows.
	SmoothedRate() float64

	// ResidualQuantile returns the q quantile of recent absolute fit
	// residuals at the newest sample, else NaN if none have been recorded.
	// Large residuals indicate the fitted line describes the history poorly.
	ResidualQuantile(q float64) float64

	// AcceptedRate returns the percentage of recently tracked updates that
	// were accepted rather than skipped.
	AcceptedRate() uint
}

type rateEstimator struct {
	config   *config
	capacity int
	defaults [NumWindows]Window

	// Mutable state
	history      *sampleHistory
	outcomes     *outcomeStats
	residuals    *residualDigest
	smoothedRate *util.Ewma
	lastResult   Result
	crossed      [NumWindows]bool
}

var _ Estimator = &rateEstimator{}

func (e *rateEstimator) Process(in Input) (Result, error) {
	if e.history == nil {
		return Result{}, ErrNotInitialized
	}

	// Check the severity first: an untrusted reading skips the whole update.
	if in.Severity >= e.config.severityLimit {
		e.outcomes.recordSkipped()
		e.logSkip("severity at or above limit", in)
		return e.lastResult, ErrStaleReading
	}

	// A non-finite value is worse than an untrusted one: admitted into the
	// history it would poison every fit until it ages out of the buffer.
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		e.outcomes.recordSkipped()
		e.logSkip("value is not finite", in)
		return e.lastResult, ErrSampleNotFinite
	}

	at := in.Timestamp
	if at.IsZero() {
		at = time.Unix(0, e.config.clock.CurrentUnixNano())
	}

	// Reset is edge triggered: it acts once, before this value is ingested.
	if in.Reset {
		e.clear()
		if e.config.logger != nil {
			e.config.logger.Debug("history reset")
		}
	}

	decimation := in.Decimation
	if decimation <= 0 {
		decimation = e.config.decimation
	}
	e.history.ingest(in.Value, at, decimation)

	rateScale := in.RateScale
	if rateScale == 0 {
		rateScale = e.config.rateScale
	}
	timeScale := in.TimeScale
	if timeScale == 0 {
		timeScale = e.config.timeScale
	}

	result := Result{SampleCount: e.history.count()}
	for i := 0; i < NumWindows; i++ {
		w := in.Windows[i]
		if w.Size == 0 {
			w = e.defaults[i]
		}
		size := util.Clamp(w.Size, minWindowSize, e.capacity)

		slope, intercept := fitWindow(e.history, size)
		eta := (w.Threshold - intercept) / slope
		result.Estimates[i] = Estimate{
			Rate:        slope * rateScale,
			TimeToLimit: eta / timeScale,
		}

		if i == 0 {
			e.observeFit(slope, intercept)
		}
		e.notifyCrossed(i, result.Estimates[i])
	}

	e.lastResult = result
	e.outcomes.recordAccepted()
	return result, nil
}

// observeFit records diagnostics for the primary window's fit: the residual
// at the newest sample and the smoothed unscaled rate.
func (e *rateEstimator) observeFit(slope, intercept float64) {
	if n := e.history.count(); n > 0 {
		e.residuals.add(e.history.at(n-1).value - intercept)
	}
	if !math.IsNaN(slope) && !math.IsInf(slope, 0) {
		e.smoothedRate.Add(slope)
	}
}

// notifyCrossed fires the crossing listener on the transition from not
// crossed to crossed. Non-finite time estimates never count as crossings.
func (e *rateEstimator) notifyCrossed(window int, est Estimate) {
	crossed := !math.IsNaN(est.TimeToLimit) && !math.IsInf(est.TimeToLimit, 0) && est.TimeToLimit <= 0
	if crossed && !e.crossed[window] && e.config.thresholdCrossedListener != nil {
		e.config.thresholdCrossedListener(ThresholdCrossedEvent{
			WindowIndex: window,
			Rate:        est.Rate,
			TimeToLimit: est.TimeToLimit,
		})
	}
	e.crossed[window] = crossed
}

func (e *rateEstimator) logSkip(reason string, in Input) {
	if e.config.logger != nil && e.config.logger.Enabled(nil, slog.LevelDebug) {
		e.config.logger.Debug("skipping update",
			"reason", reason,
			"severity", in.Severity)
	}
}

// clear empties the history and diagnostics derived from it. The outcome
// stats describe the update stream rather than the history, so they survive.
func (e *rateEstimator) clear() {
	e.history.reset()
	e.residuals.reset()
	e.smoothedRate.Reset()
	e.crossed = [NumWindows]bool{}
}

func (e *rateEstimator) Reset() {
	e.clear()
}

func (e *rateEstimator) SampleCount() int {
	return e.history.count()
}

func (e *rateEstimator) Capacity() int {
	return e.capacity
}

func (e *rateEstimator) LastResult() Result {
	return e.lastResult
}

func (e *rateEstimator) SmoothedRate() float64 {
	return e.smoothedRate.Value()
}

func (e *rateEstimator) ResidualQuantile(q float64) float64 {
	return e.residuals.quantile(q)
}

func (e *rateEstimator) AcceptedRate() uint {
	return e.outcomes.acceptedRate()
}
