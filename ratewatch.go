// Package ratewatch estimates the rate of change of a scalar signal over time,
// along with the projected time until the signal crosses configured thresholds.
// The slope and current value, i.e. the rate and intercept, are estimated with
// a least squares fit over a bounded, time-ordered sample history; the time to
// reach a threshold is then (threshold - intercept) / rate. A negative time
// estimate indicates the threshold has already been crossed, and a NaN or
// infinite estimate indicates a zero rate of change.
//
// Small fit windows produce responsive but noisy estimates; large windows
// produce smoother but less responsive ones. Each update evaluates four
// independent window/threshold pairs over the same history, allowing several
// responsiveness/threshold combinations to be tracked at once.
package ratewatch

import (
	"errors"
	"time"
)

// NumWindows is the number of independent window/threshold pairs evaluated on
// every update.
const NumWindows = 4

const (
	minCapacity   = 10
	maxCapacity   = 32768
	minWindowSize = 2
)

// ErrConfiguration is returned by Build when the configuration is invalid. An
// estimator is never produced alongside this error.
var ErrConfiguration = errors.New("invalid estimator configuration")

// ErrStaleReading is returned by Process when the input severity is at or
// above the configured severity limit. The update is skipped and the estimator
// state is unchanged.
var ErrStaleReading = errors.New("reading severity at or above limit")

// ErrSampleNotFinite is returned by Process when the input value is NaN or
// infinite. The update is skipped and the estimator state is unchanged: a
// non-finite value admitted into the history would poison every fit that
// includes it until it ages out of the buffer.
var ErrSampleNotFinite = errors.New("sample value is not finite")

// ErrNotInitialized is returned by Process when the estimator was not produced
// by a successful Build.
var ErrNotInitialized = errors.New("estimator not initialized")

// Window pairs a fit window size with a threshold. Size is the number of most
// recent history samples used for the least squares fit, clamped at use time
// to [2, capacity]. Threshold is the value whose projected crossing time is
// reported for this window.
type Window struct {
	Size      int
	Threshold float64
}

// Input carries the per-update values supplied by the host. Zero values fall
// back to the defaults configured on the Builder.
type Input struct {
	// Value is the current reading of the monitored signal.
	Value float64

	// Severity is the quality code for the reading. Values at or above the
	// configured severity limit cause the update to be skipped.
	Severity int

	// Timestamp is the instant the reading was taken. The zero value means the
	// estimator's clock supplies the time.
	Timestamp time.Time

	// Reset, when true, clears the sample history and the pending decimation
	// accumulator before this update's value is ingested. It is edge
	// triggered: a reset acts once, on the update that carries it.
	Reset bool

	// Decimation is the number of raw updates averaged into one retained
	// sample. Zero or negative means the configured default.
	Decimation int

	// Windows overrides the configured window/threshold pairs for this update.
	// A pair with Size == 0 falls back to its configured default.
	Windows [NumWindows]Window

	// RateScale scales reported rates, e.g. 60 reports per-minute rates.
	// Zero means the configured default.
	RateScale float64

	// TimeScale divides reported time estimates, e.g. 3600 reports hours.
	// Zero means the configured default.
	TimeScale float64
}

// Estimate is the output for one window/threshold pair.
type Estimate struct {
	// Rate is the fitted slope in signal units per second, multiplied by the
	// rate scale factor. It may be NaN or infinite for a degenerate fit.
	Rate float64

	// TimeToLimit is the projected time in seconds until the fitted line
	// reaches the window's threshold, divided by the time scale factor.
	// Negative means the threshold has already been crossed; NaN or infinite
	// means the fit was degenerate or the rate is zero.
	TimeToLimit float64
}

// Result is the output vector of one Process call.
type Result struct {
	// SampleCount is the number of samples retained in the history after this
	// update's ingest.
	SampleCount int

	// Estimates holds one rate and time-to-limit pair per window.
	Estimates [NumWindows]Estimate
}

// ThresholdCrossedEvent indicates a window's projected time-to-limit became
// non-positive, meaning the fitted line has reached its threshold.
type ThresholdCrossedEvent struct {
	// WindowIndex identifies which of the four windows crossed.
	WindowIndex int

	// Rate is the scaled rate reported for the crossing update.
	Rate float64

	// TimeToLimit is the scaled time estimate reported for the crossing
	// update. It is always finite and non-positive.
	TimeToLimit float64
}
