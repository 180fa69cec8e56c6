package pulsecheck

import (
	"errors"
	"log/slog"
	"time"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	endpoints       []Endpoint
	interval        time.Duration
	maxConcurrency  int
	logger          *slog.Logger
	resultCallbacks []func(ProbeResult)
	cycleCallbacks  []func(CycleReport)
}

// Option is a function that configures a [Monitor] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithEndpoint], [WithEndpoints], [WithInterval],
// [WithMaxConcurrency], [WithLogger], [WithResultCallback], [WithCycleCallback].
type Option func(*monitorConfig) error

// WithEndpoint adds a single [Endpoint] to the monitored list.
//
// Can be called multiple times to add multiple endpoints. At least one
// endpoint must be configured for [New] to succeed. Endpoints are probed and
// reported in the order they were added.
func WithEndpoint(e Endpoint) Option {
	return func(cfg *monitorConfig) error {
		cfg.endpoints = append(cfg.endpoints, e)
		return nil
	}
}

// WithEndpoints adds multiple [Endpoint] values to the monitored list.
//
// Equivalent to calling [WithEndpoint] for each one.
//
// Example:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithEndpoints(ep1, ep2, ep3),
//	)
func WithEndpoints(endpoints ...Endpoint) Option {
	return func(cfg *monitorConfig) error {
		cfg.endpoints = append(cfg.endpoints, endpoints...)
		return nil
	}
}

// WithInterval sets the pause between the end of one cycle's report and the
// start of the next cycle.
//
// The pause does not subtract the time spent probing, so the period of the
// loop is probe time + report time + interval. Defaults to 15 seconds.
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// WithMaxConcurrency sets how many endpoints may be probed at once within
// a cycle.
//
// The default of 1 probes endpoints one at a time in configuration order.
// Higher values shorten cycles with many endpoints; reports are identical
// either way because results are gathered before aggregation and the client
// keeps at least n connections per host.
//
// Returns an error if the value is zero or negative.
func WithMaxConcurrency(n int) Option {
	return func(cfg *monitorConfig) error {
		if n <= 0 {
			return errors.New("max concurrency must be positive")
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Monitor.
//
// Cycle reports are written to this logger at INFO level and individual
// probe outcomes at DEBUG level. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithResultCallback registers a function to be called after every probe.
//
// The callback receives the [ProbeResult] once the endpoint's counters have
// been updated. Callbacks run synchronously on the cycle goroutine, in
// registration order; they must not block. Panics are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithResultCallback(cb func(ProbeResult)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}

// WithCycleCallback registers a function to be called with each completed
// cycle's [CycleReport], after it has been logged.
//
// Use this to feed availability into another system. The same rules as
// [WithResultCallback] apply: synchronous, ordered, panic-safe, non-blocking.
//
// Example:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithEndpoints(endpoints...),
//	    pulsecheck.WithCycleCallback(func(r pulsecheck.CycleReport) {
//	        for domain, pct := range r.DomainPercentages() {
//	            gauge.WithLabelValues(domain).Set(float64(pct))
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithCycleCallback(cb func(CycleReport)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil
		}
		cfg.cycleCallbacks = append(cfg.cycleCallbacks, cb)
		return nil
	}
}
