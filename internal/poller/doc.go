// Package poller provides the HTTP transport and fan-out used by pulsecheck
// monitoring cycles.
//
// This package is internal to pulsecheck. It issues probe requests and
// returns raw outcomes; classification and availability accounting live in
// the main pulsecheck package.
//
// The main components are:
//
//   - [Client]: pooled HTTP client with per-request timeouts and body size limits
//   - [Pool]: bounded-concurrency fan-out of one cycle's requests
//   - [Request], [Response], [Target]: the data passed between them
//
// Users of the pulsecheck library should not need to interact with this
// package directly.
package poller
