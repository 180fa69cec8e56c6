package pulsecheck

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// endpointConfig holds mutable state during endpoint construction.
type endpointConfig struct {
	method  string
	headers map[string]string
	body    []byte
	timeout time.Duration
}

// EndpointOption is a function that configures an [Endpoint] during construction.
//
// EndpointOption implements the functional options pattern, allowing optional
// configuration to be passed to [NewEndpoint] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithMethod], [WithHeaders], [WithBody], [WithTimeout].
type EndpointOption func(*endpointConfig) error

// validMethod reports whether m is an HTTP token, the same rule net/http
// applies when building a request.
func validMethod(m string) bool {
	return m != "" && strings.IndexFunc(m, func(r rune) bool {
		return !httpguts.IsTokenRune(r)
	}) == -1
}

// WithMethod sets the HTTP method for probe requests.
//
// The method is stored upper-case. Any HTTP token is accepted, so standard
// methods such as GET (default), POST or TRACE work alongside extension
// methods such as PURGE.
//
// Example:
//
//	ep, err := pulsecheck.NewEndpoint("API", url,
//	    pulsecheck.WithMethod("post"),
//	)
//
// Returns an error if the method is empty or contains characters that are
// not allowed in an HTTP token, such as spaces.
func WithMethod(method string) EndpointOption {
	return func(cfg *endpointConfig) error {
		m := strings.ToUpper(strings.TrimSpace(method))
		if !validMethod(m) {
			return fmt.Errorf("invalid method %q: must be an HTTP token", method)
		}
		cfg.method = m
		return nil
	}
}

// WithHeaders adds custom HTTP headers to probe requests for this endpoint.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	ep, err := pulsecheck.NewEndpoint("API", url,
//	    pulsecheck.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) EndpointOption {
	return func(cfg *endpointConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithBody sets the raw payload sent with every probe request.
//
// The body is sent as-is; set a Content-Type with [WithHeaders] if the
// target needs one. An empty string still sends an (empty) body.
func WithBody(body string) EndpointOption {
	return func(cfg *endpointConfig) error {
		cfg.body = []byte(body)
		return nil
	}
}

// WithTimeout sets the request timeout for this endpoint.
//
// The timeout is also the latency threshold: a response that takes longer
// than d is unavailable. A response arriving in exactly d is still
// available. Defaults to [DefaultTimeout] (500ms).
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) EndpointOption {
	return func(cfg *endpointConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}
