package pulsecheck

import (
	"context"
	"errors"
	"time"

	"github.com/jpalmerr/pulsecheck/internal/poller"
)

// ProbeResult holds the outcome of probing a single endpoint once.
//
// The only outcome that counts toward availability is Available. The other
// fields are diagnostic: they tell a wrong status apart from a slow response
// or a transport failure, which the availability figures do not.
type ProbeResult struct {
	// EndpointName is the display name of the probed endpoint.
	EndpointName string

	// URL is the target URL that was probed.
	URL string

	// Domain is the grouping key of the endpoint.
	Domain string

	// Available is the classification of this probe.
	Available bool

	// StatusCode is the HTTP status code returned by the endpoint.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the time from sending the request to the end of the response body.
	Latency time.Duration

	// CheckedAt is the timestamp when the probe completed.
	CheckedAt time.Time

	// Error contains any transport error. nil means a response was received
	// (though Available may still be false because of status or latency).
	Error error
}

// Available reports whether a received response counts as available:
// a status code in [200,300) that arrived within threshold. A response that
// takes exactly threshold is still available.
func Available(statusCode int, elapsed, threshold time.Duration) bool {
	return statusCode >= 200 && statusCode < 300 && elapsed <= threshold
}

// Probe issues one request to ep, classifies it, records the outcome on the
// endpoint's lifetime counter, and returns the classification.
//
// Every completed probe increments the endpoint's total count exactly once,
// including when the request fails. Transport errors never escape: they are
// reported as unavailable. If ctx is already cancelled no request is made,
// nothing is recorded, and Probe returns false.
func (m *Monitor) Probe(ctx context.Context, ep Endpoint) bool {
	resp := m.pool.FetchAll(ctx, []poller.Target{toTarget(ep)})[0]
	if errors.Is(resp.Error, poller.ErrNotDispatched) {
		return false
	}
	return m.settle(ep, resp).Available
}

// settle classifies a raw response for ep, records it, and notifies result
// callbacks.
func (m *Monitor) settle(ep Endpoint, resp poller.Response) ProbeResult {
	result := ProbeResult{
		EndpointName: ep.name,
		URL:          ep.url,
		Domain:       ep.domain,
		StatusCode:   resp.StatusCode,
		Latency:      resp.Latency,
		CheckedAt:    time.Now(),
		Error:        resp.Error,
	}
	result.Available = resp.Error == nil && Available(resp.StatusCode, resp.Latency, ep.timeout)

	if ep.stats != nil {
		ep.stats.Record(result.Available)
	}

	logAttrs := []any{
		"endpoint", result.EndpointName,
		"url", result.URL,
		"available", result.Available,
		"status_code", result.StatusCode,
		"latency_ms", result.Latency.Milliseconds(),
	}
	if result.Error != nil {
		m.logger.Debug("probe failed", append(logAttrs, "error", result.Error.Error())...)
	} else {
		m.logger.Debug("probe completed", logAttrs...)
	}

	for _, cb := range m.resultCallbacks {
		invokeCallbackSafe(m.logger, "result", result.EndpointName, func() { cb(result) })
	}

	return result
}

// toTarget converts an Endpoint to the poller's request format.
// Headers and body are copied so the poller never shares endpoint state.
func toTarget(ep Endpoint) poller.Target {
	return poller.Target{
		Name: ep.name,
		Request: poller.Request{
			Method:  ep.method,
			URL:     ep.url,
			Headers: copyMap(ep.headers),
			Body:    copyBytes(ep.body),
		},
		Timeout: ep.timeout,
	}
}
