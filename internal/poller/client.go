package poller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion when probing many endpoints
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second // conservative: matches common ALB defaults
)

// Request describes a single outbound probe request.
type Request struct {
	// Method is the HTTP method. Empty defaults to GET.
	Method string

	// URL is the target URL.
	URL string

	// Headers are set on the request, replacing any default value.
	Headers map[string]string

	// Body is the raw request payload. nil sends no body.
	Body []byte
}

// Response holds the result of an HTTP request made by [Client].
//
// Response captures the status code, the time until the response body was
// fully read, and any error that occurred. The body itself is drained and
// discarded; only its size is kept.
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the time from sending the request to reading the last body byte.
	Latency time.Duration

	// BytesRead is the number of body bytes read, capped at 1MB.
	BytesRead int64

	// Error contains any error that occurred during the request.
	// nil indicates the request completed (though status may indicate an error).
	Error error
}

// Client is an HTTP client wrapper optimized for probing health endpoints.
//
// Client uses per-request timeouts via context rather than a global timeout,
// allowing different endpoints to have different timeout configurations.
// Response bodies are read up to 1MB so latency covers response completion.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new probing [Client] for up to maxConcurrency requests
// in flight at once.
//
// The client is configured with connection pooling limits to prevent resource
// exhaustion when probing many endpoints. Timeouts are applied per-request via
// the context parameter in [Client.Fetch], not as a global client timeout.
//
// Connection pooling configuration:
//   - MaxIdleConns: 100 total idle connections
//   - MaxIdleConnsPerHost: 10 idle connections per host, or maxConcurrency if larger
//   - MaxConnsPerHost: 10 concurrent connections per host, or maxConcurrency if larger
//   - IdleConnTimeout: 60 seconds before closing idle connections
//
// The per-host limits never fall below maxConcurrency, so a request never
// waits for a connection and the wait is never counted as latency.
func NewClient(maxConcurrency int) *Client {
	perHost := max(defaultMaxConnsPerHost, maxConcurrency)
	return newClientWithTransport(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        max(defaultMaxIdleConns, perHost),
		MaxIdleConnsPerHost: max(defaultMaxIdleConnsPerHost, maxConcurrency),
		MaxConnsPerHost:     perHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		DisableKeepAlives:   false, // explicitly enable connection reuse
	})
}

func newClientWithTransport(rt http.RoundTripper) *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: rt,
		},
	}
}

// Fetch performs an HTTP request and returns a structured [Response].
//
// The timeout bounds the whole exchange, including reading the response
// body. If req.Method is empty, GET is used.
//
// Fetch always returns a Response; errors are captured in the Error field
// rather than returned separately. This simplifies handling in the pool.
func (c *Client) Fetch(ctx context.Context, req Request, timeout time.Duration) Response {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}

	for key, value := range req.Headers {
		// net/http ignores Host in Header
		if http.CanonicalHeaderKey(key) == "Host" {
			httpReq.Host = value
			continue
		}
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// drain body with size limit so latency covers the complete response
	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			BytesRead:  n,
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
		BytesRead:  n,
	}
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
