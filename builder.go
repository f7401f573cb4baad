package ratewatch

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ratewatch-go/ratewatch/internal/util"
)

const (
	// The default severity at or above which a reading is not trusted.
	defaultSeverityLimit = 3

	// The default window size for the smoothed rate moving average.
	defaultSmoothingWindow = 10
)

// Builder builds Estimator instances.
//
// This type is not concurrency safe.
type Builder interface {
	// WithMaxSamples configures the maximum number of samples retained in the
	// history. The history capacity is the larger of maxSamples and the
	// configured window sizes, clamped to [10, 32768]. Configure this when
	// window sizes are overridden per update, so the history is large enough
	// for the sizes the host will ask for.
	WithMaxSamples(maxSamples int) Builder

	// WithWindows configures the default window/threshold pairs, up to four.
	// Pairs not configured here default to a window size of 2 and a threshold
	// of 0. Each pair may still be overridden per update via Input.
	WithWindows(windows ...Window) Builder

	// WithSeverityLimit configures the severity at or above which an update is
	// skipped as untrustworthy. The default value is 3.
	WithSeverityLimit(limit int) Builder

	// WithDecimation configures the default number of raw updates averaged
	// into one retained sample. Decimation trades responsiveness for a longer
	// effective history. Values below 1 are treated as 1, which retains every
	// raw value. The default value is 1.
	WithDecimation(factor int) Builder

	// WithScales configures the default rate and time scale factors. Rates are
	// reported in signal units per second multiplied by rateScale, and time
	// estimates in seconds divided by timeScale, e.g. 60 and 3600 report
	// per-minute rates and hour estimates. Zero values mean 1.0.
	WithScales(rateScale float64, timeScale float64) Builder

	// WithSmoothing configures the effective window size of the smoothed rate
	// moving average. The default value is 10.
	WithSmoothing(windowSize uint) Builder

	// WithLogger configures a logger which provides debug logging of resets
	// and skipped updates.
	WithLogger(logger *slog.Logger) Builder

	// OnThresholdCrossed registers a listener to be called when a window's
	// projected time-to-limit first becomes non-positive. The listener fires
	// once per crossing: it is re-armed when a later update projects the
	// window back above its threshold.
	OnThresholdCrossed(listener func(event ThresholdCrossedEvent)) Builder

	// Build returns a new Estimator using the builder's configuration, else
	// an error wrapping ErrConfiguration if the configuration is invalid.
	Build() (Estimator, error)
}

type config struct {
	maxSamples      int
	windows         []Window
	severityLimit   int
	decimation      int
	rateScale       float64
	timeScale       float64
	smoothingWindow uint
	logger          *slog.Logger
	clock           util.Clock

	thresholdCrossedListener func(ThresholdCrossedEvent)
}

var _ Builder = &config{}

// NewBuilder creates an Estimator Builder.
func NewBuilder() Builder {
	return &config{
		severityLimit:   defaultSeverityLimit,
		decimation:      1,
		rateScale:       1.0,
		timeScale:       1.0,
		smoothingWindow: defaultSmoothingWindow,
		clock:           util.WallClock,
	}
}

func (c *config) WithMaxSamples(maxSamples int) Builder {
	c.maxSamples = maxSamples
	return c
}

func (c *config) WithWindows(windows ...Window) Builder {
	c.windows = windows
	return c
}

func (c *config) WithSeverityLimit(limit int) Builder {
	c.severityLimit = limit
	return c
}

func (c *config) WithDecimation(factor int) Builder {
	c.decimation = factor
	return c
}

func (c *config) WithScales(rateScale float64, timeScale float64) Builder {
	c.rateScale = rateScale
	c.timeScale = timeScale
	return c
}

func (c *config) WithSmoothing(windowSize uint) Builder {
	c.smoothingWindow = windowSize
	return c
}

func (c *config) WithLogger(logger *slog.Logger) Builder {
	c.logger = logger
	return c
}

func (c *config) OnThresholdCrossed(listener func(event ThresholdCrossedEvent)) Builder {
	c.thresholdCrossedListener = listener
	return c
}

func (c *config) Build() (Estimator, error) {
	if len(c.windows) > NumWindows {
		return nil, fmt.Errorf("%w: at most %d windows, got %d", ErrConfiguration, NumWindows, len(c.windows))
	}
	for i, w := range c.windows {
		if math.IsNaN(w.Threshold) || math.IsInf(w.Threshold, 0) {
			return nil, fmt.Errorf("%w: window %d threshold is not finite", ErrConfiguration, i)
		}
	}
	if math.IsNaN(c.rateScale) || math.IsInf(c.rateScale, 0) {
		return nil, fmt.Errorf("%w: rate scale is not finite", ErrConfiguration)
	}
	if math.IsNaN(c.timeScale) || math.IsInf(c.timeScale, 0) {
		return nil, fmt.Errorf("%w: time scale is not finite", ErrConfiguration)
	}

	defaults := [NumWindows]Window{}
	for i := range defaults {
		defaults[i] = Window{Size: minWindowSize}
	}
	capacity := c.maxSamples
	for i, w := range c.windows {
		defaults[i] = w
		capacity = max(capacity, w.Size)
	}
	capacity = util.Clamp(capacity, minCapacity, maxCapacity)

	cc := *c
	if cc.decimation < 1 {
		cc.decimation = 1
	}
	if cc.rateScale == 0 {
		cc.rateScale = 1.0
	}
	if cc.timeScale == 0 {
		cc.timeScale = 1.0
	}
	if cc.smoothingWindow == 0 {
		cc.smoothingWindow = defaultSmoothingWindow
	}

	return &rateEstimator{
		config:       &cc,
		capacity:     capacity,
		defaults:     defaults,
		history:      newSampleHistory(capacity),
		outcomes:     newOutcomeStats(outcomeWindowSize),
		residuals:    newResidualDigest(),
		smoothedRate: util.NewEwma(cc.smoothingWindow, 1),
	}, nil
}
