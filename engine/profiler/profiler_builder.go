package profiler

import (
	"log/slog"
	"time"
)

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are written to.
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often stats are reported.
//
// Parameters:
//   - interval: the reporting interval, non-positive values keep the default
//
// Returns:
//   - ProfilerOption: the option function
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithSampleSource sets the function queried for the current accumulated sample count.
//
// Parameters:
//   - samples: typically an orchestrator's SampleCount method
//
// Returns:
//   - ProfilerOption: the option function
func WithSampleSource(samples func() uint32) ProfilerOption {
	return func(p *Profiler) {
		p.samples = samples
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
