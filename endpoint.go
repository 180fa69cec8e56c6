package pulsecheck

import (
	"errors"
	"net/http"
	"time"
)

// DefaultTimeout is the per-request timeout applied when [WithTimeout] is not
// used. It is also the latency threshold: a response slower than the timeout
// is unavailable even if its status is 2xx.
const DefaultTimeout = 500 * time.Millisecond

// Endpoint represents a target URL whose availability is tracked.
//
// The identity of an Endpoint (name, URL, method, headers, body, domain) is
// immutable after creation via [NewEndpoint]. Getters return copies of
// mutable data (maps, byte slices).
//
// Each Endpoint also owns a lifetime [Counter] of probe outcomes. Copies of
// an Endpoint value share that counter, so the counts follow the endpoint
// wherever it is passed.
//
// Endpoints are configured using the functional options pattern with
// [EndpointOption] functions such as [WithMethod], [WithHeaders],
// [WithBody], and [WithTimeout].
type Endpoint struct {
	name    string
	url     string
	method  string
	headers map[string]string
	body    []byte
	domain  string
	timeout time.Duration
	stats   *Counter
}

// Name returns the endpoint's display name.
// Names are used in reports only and need not be unique.
func (e Endpoint) Name() string {
	return e.name
}

// URL returns the endpoint's target URL as a string.
func (e Endpoint) URL() string {
	return e.url
}

// Method returns the HTTP method used for probes. Defaults to GET.
func (e Endpoint) Method() string {
	return e.method
}

// Headers returns a copy of the endpoint's custom HTTP headers.
// Returns an empty map if no custom headers are set.
func (e Endpoint) Headers() map[string]string {
	return copyMap(e.headers)
}

// Body returns a copy of the request payload, or nil if the endpoint sends
// no body.
func (e Endpoint) Body() []byte {
	return copyBytes(e.body)
}

// Domain returns the host of the endpoint's URL without its port.
// It is derived once by [DomainOf] when the endpoint is created and is the
// key under which the endpoint is grouped in per-domain availability.
func (e Endpoint) Domain() string {
	return e.domain
}

// Timeout returns the request timeout, which doubles as the latency
// threshold for classifying a probe as available.
// Defaults to [DefaultTimeout].
func (e Endpoint) Timeout() time.Duration {
	return e.timeout
}

// Availability returns a snapshot of the endpoint's lifetime probe counts.
func (e Endpoint) Availability() Tally {
	if e.stats == nil {
		return Tally{}
	}
	return e.stats.Snapshot()
}

// Percentage returns the endpoint's lifetime availability percentage.
func (e Endpoint) Percentage() int {
	return e.Availability().Percentage()
}

// NewEndpoint creates an [Endpoint] with the given name, URL, and options.
//
// The name parameter is a human-readable identifier used in reports.
// The rawURL parameter should be an absolute http:// or https:// URL. Only
// an empty URL is rejected here: a malformed URL is kept, groups under
// whatever [DomainOf] makes of it, and is reported unavailable when probed.
//
// Options are applied in order using the functional options pattern.
//
// Returns an error if the name or URL is empty, or if an option fails.
//
// Example:
//
//	ep, err := pulsecheck.NewEndpoint("orders", "https://api.example.com/orders",
//	    pulsecheck.WithMethod("POST"),
//	    pulsecheck.WithHeaders("Content-Type", "application/json"),
//	    pulsecheck.WithBody(`{"dry_run":true}`),
//	)
func NewEndpoint(name, rawURL string, opts ...EndpointOption) (Endpoint, error) {
	if name == "" {
		return Endpoint{}, errors.New("endpoint name cannot be empty")
	}
	if rawURL == "" {
		return Endpoint{}, errors.New("endpoint URL cannot be empty")
	}

	cfg := &endpointConfig{
		method:  http.MethodGet,
		headers: make(map[string]string),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Endpoint{}, err
		}
	}

	return Endpoint{
		name:    name,
		url:     rawURL,
		method:  cfg.method,
		headers: cfg.headers,
		body:    cfg.body,
		domain:  DomainOf(rawURL),
		timeout: cfg.timeout,
		stats:   &Counter{},
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// copyBytes returns a copy of the byte slice, or nil if input is nil.
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
