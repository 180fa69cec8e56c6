// Package pulsecheck measures how often a set of HTTP endpoints is available
// and reports running availability percentages per domain and per endpoint.
//
// A Monitor probes every configured endpoint once per cycle, sleeps for an
// interval, and repeats until its context is cancelled. Each probe is either
// available or not; there is no degraded state and no retry.
//
// # Quick Start
//
//	ep, _ := pulsecheck.NewEndpoint("API", "https://api.example.com/health")
//	m, _ := pulsecheck.New(pulsecheck.WithEndpoint(ep))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Run(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Monitors and endpoints use the functional options pattern:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithEndpoints(ep1, ep2),
//	    pulsecheck.WithInterval(30 * time.Second),
//	    pulsecheck.WithMaxConcurrency(4),
//	)
//
//	ep, err := pulsecheck.NewEndpoint("orders", "https://api.example.com/orders",
//	    pulsecheck.WithMethod("POST"),
//	    pulsecheck.WithHeaders("Authorization", "Bearer token"),
//	    pulsecheck.WithBody(`{"dry_run":true}`),
//	    pulsecheck.WithTimeout(time.Second),
//	)
//
// The config package loads endpoints from a YAML list instead.
//
// # Availability
//
// A probe is available when the response status is 2xx and the whole
// response, body included, arrived within the endpoint's timeout (500ms by
// default). Connection failures, timeouts and malformed requests are
// unavailable. See [Available].
//
// Percentages are whole numbers truncated toward zero: 2 successes out of 3
// is 66. Per-endpoint figures cover the lifetime of the process. Per-domain
// figures cover only the most recent cycle, grouping endpoints by the host of
// their URL without its port (see [DomainOf]).
//
// # Reporting
//
// After each cycle, [Monitor.Run] logs a "domain availability" section
// followed by an "endpoint availability" section through its [slog.Logger],
// then passes the [CycleReport] to any [WithCycleCallback] functions.
// [WithResultCallback] observes individual probes.
//
// # Architecture
//
//   - internal/poller: pooled HTTP client and bounded concurrent fan-out
//   - internal/logging: slog construction for the command-line tool
//   - config: YAML endpoint list loading
//   - cmd/pulsecheck: command-line entry point
//
// The internal packages are not part of the public API and may change
// without notice.
package pulsecheck
