// Package scan provides a minimal host driver that periodically samples
// signal sources and feeds them to ratewatch estimators. It stands in for
// whatever scan framework normally triggers updates; the estimator core never
// schedules anything itself.
package scan

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ratewatch-go/ratewatch"
)

// Source samples one monitored signal, returning its current value and
// severity code. A Source is only ever called from a single goroutine.
type Source func(ctx context.Context) (value float64, severity int)

// ResultFunc consumes the output of one update for the named signal. err is
// nil for accepted updates, else the skip reason reported by the estimator.
type ResultFunc func(name string, result ratewatch.Result, err error)

type signal struct {
	name      string
	source    Source
	estimator ratewatch.Estimator
}

// Scanner periodically samples registered sources and drives their
// estimators. Each signal runs on its own goroutine, so a given estimator is
// always invoked strictly serially, as the estimator contract requires.
//
// This type is not concurrency safe. Register all signals before Run.
type Scanner struct {
	interval time.Duration
	onResult ResultFunc
	signals  []signal
}

// NewScanner creates a Scanner that samples every registered source once per
// interval.
func NewScanner(interval time.Duration) *Scanner {
	return &Scanner{interval: interval}
}

// OnResult registers a callback to consume each update's output. The callback
// may be invoked concurrently for different signals and must be safe for that.
func (s *Scanner) OnResult(fn ResultFunc) *Scanner {
	s.onResult = fn
	return s
}

// Add registers a named signal with its source and estimator.
func (s *Scanner) Add(name string, source Source, estimator ratewatch.Estimator) *Scanner {
	s.signals = append(s.signals, signal{name: name, source: source, estimator: estimator})
	return s
}

// Run samples every registered source once per interval until ctx is
// canceled, then returns nil once all signal goroutines have stopped.
func (s *Scanner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sig := range s.signals {
		sig := sig
		g.Go(func() error {
			return s.runSignal(ctx, sig)
		})
	}
	return g.Wait()
}

func (s *Scanner) runSignal(ctx context.Context, sig signal) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			value, severity := sig.source(ctx)
			result, err := sig.estimator.Process(ratewatch.Input{
				Value:    value,
				Severity: severity,
			})
			if s.onResult != nil {
				s.onResult(sig.name, result, err)
			}
		}
	}
}
