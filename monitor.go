package pulsecheck

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pulsecheck/internal/poller"
)

const (
	defaultInterval       = 15 * time.Second
	defaultMaxConcurrency = 1
)

// ErrNoEndpoints is returned by [New] and [Monitor.Run] when there is nothing
// to monitor.
var ErrNoEndpoints = errors.New("at least one endpoint is required")

// Monitor probes a fixed set of endpoints in repeated cycles and reports
// their availability.
//
// A Monitor is created using [New] with functional options and started with
// [Monitor.Run]. The typical lifecycle is:
//
//	m, err := pulsecheck.New(pulsecheck.WithEndpoints(endpoints...))
//	if err != nil {
//	    slog.Error("failed to create monitor", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	m.Run(ctx) // blocks until context cancelled
//
// The endpoint list is fixed after New. A single cycle can be run on its own
// with [Monitor.RunCycle]; the caller then owns the cadence.
type Monitor struct {
	endpoints       []Endpoint
	interval        time.Duration
	client          *poller.Client
	pool            *poller.Pool
	logger          *slog.Logger
	resultCallbacks []func(ProbeResult)
	cycleCallbacks  []func(CycleReport)
}

// New creates a new [Monitor] with the given options.
//
// At least one endpoint must be configured via [WithEndpoint] or
// [WithEndpoints]. Endpoint names need not be unique. Other options have
// defaults:
//   - Interval: 15 seconds
//   - Max concurrency: 1 (sequential probing)
//   - Logger: [slog.Default]
//
// Returns [ErrNoEndpoints] if no endpoints are configured, or the first
// option error.
//
// Example:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithEndpoint(ep),
//	    pulsecheck.WithInterval(30 * time.Second),
//	    pulsecheck.WithMaxConcurrency(4),
//	)
func New(opts ...Option) (*Monitor, error) {
	cfg := &monitorConfig{
		endpoints:      []Endpoint{},
		interval:       defaultInterval,
		maxConcurrency: defaultMaxConcurrency,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	// endpoints built as zero values have no counter of their own
	for i := range cfg.endpoints {
		if cfg.endpoints[i].stats == nil {
			cfg.endpoints[i].stats = &Counter{}
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	client := poller.NewClient(cfg.maxConcurrency)

	return &Monitor{
		endpoints:       cfg.endpoints,
		interval:        cfg.interval,
		client:          client,
		pool:            poller.NewPool(client, cfg.maxConcurrency, logger),
		logger:          logger,
		resultCallbacks: cfg.resultCallbacks,
		cycleCallbacks:  cfg.cycleCallbacks,
	}, nil
}

// Run probes every endpoint, reports, sleeps for the interval, and repeats
// until ctx is cancelled.
//
// Cancellation is honoured while sleeping and between probes. A cycle cut
// short by cancellation is discarded without being reported. Before returning,
// Run logs "monitoring stopped" and closes idle connections.
//
// Returns nil on cancellation, or [ErrNoEndpoints] if the Monitor has no
// endpoints.
func (m *Monitor) Run(ctx context.Context) error {
	if len(m.endpoints) == 0 {
		return ErrNoEndpoints
	}

	m.logger.Info("monitoring started",
		"endpoint_count", len(m.endpoints),
		"interval", m.interval.String(),
		"max_concurrency", m.pool.MaxConcurrency(),
	)
	defer func() {
		m.client.Close()
		m.logger.Info("monitoring stopped")
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		report := m.RunCycle(ctx)
		if report.Interrupted {
			return nil
		}
		m.report(report)

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle probes every endpoint once and returns the cycle's report.
//
// Endpoints are dispatched in configuration order. Each probe updates its
// endpoint's lifetime counter; the report's per-domain tallies are built from
// this cycle's probes only. RunCycle does not log the report or invoke cycle
// callbacks; [Monitor.Run] does that.
//
// If ctx is cancelled part way through, endpoints not yet dispatched are left
// untouched, in-flight probes complete within their own timeout, and the
// report is marked Interrupted.
func (m *Monitor) RunCycle(ctx context.Context) CycleReport {
	report := CycleReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	targets := make([]poller.Target, len(m.endpoints))
	for i, ep := range m.endpoints {
		targets[i] = toTarget(ep)
	}

	responses := m.pool.FetchAll(ctx, targets)

	results := make([]ProbeResult, 0, len(responses))
	for i, resp := range responses {
		if errors.Is(resp.Error, poller.ErrNotDispatched) {
			report.Interrupted = true
			continue
		}
		results = append(results, m.settle(m.endpoints[i], resp))
	}

	report.Duration = time.Since(report.StartedAt)
	report.Domains = aggregateDomains(results)
	report.Endpoints = m.endpointAvailability()

	if report.Interrupted {
		m.logger.Debug("cycle interrupted",
			"cycle_id", report.ID,
			"probed", len(results),
			"skipped", len(m.endpoints)-len(results),
		)
	}

	return report
}

// report logs a completed cycle and hands it to cycle callbacks.
func (m *Monitor) report(r CycleReport) {
	logReport(m.logger, r)
	for _, cb := range m.cycleCallbacks {
		invokeCallbackSafe(m.logger, "cycle", r.ID, func() { cb(r) })
	}
}

// endpointAvailability snapshots every endpoint's lifetime counter.
func (m *Monitor) endpointAvailability() []EndpointAvailability {
	out := make([]EndpointAvailability, len(m.endpoints))
	for i, ep := range m.endpoints {
		out[i] = EndpointAvailability{
			Name:   ep.name,
			URL:    ep.url,
			Domain: ep.domain,
			Tally:  ep.Availability(),
		}
	}
	return out
}

// Endpoints returns a copy of the configured endpoints.
//
// The returned slice is a copy; modifying it does not affect the Monitor.
// The endpoints in it share their counters with the Monitor, so their
// [Endpoint.Availability] reflects probes made by the Monitor.
func (m *Monitor) Endpoints() []Endpoint {
	cp := make([]Endpoint, len(m.endpoints))
	copy(cp, m.endpoints)
	return cp
}

// Interval returns the configured pause between cycles.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// MaxConcurrency returns the configured number of concurrent probes.
func (m *Monitor) MaxConcurrency() int {
	return m.pool.MaxConcurrency()
}

// invokeCallbackSafe calls fn with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(logger *slog.Logger, kind, subject string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("callback panicked",
				"kind", kind,
				"panic", r,
				"subject", subject,
			)
		}
	}()
	fn()
}
