package config

import (
	"log/slog"
	"sort"

	"go.uber.org/multierr"

	"github.com/jpalmerr/pulsecheck"
)

// BuildEndpoints converts parsed configuration into SDK Endpoint objects.
//
// defaults are applied to every endpoint before the descriptor's own
// settings, so a descriptor timeout overrides a default [pulsecheck.WithTimeout].
//
// A descriptor that [pulsecheck.NewEndpoint] rejects (an invalid method,
// for instance) is left out. The returned error combines one
// [*DescriptorError] per rejected descriptor; the endpoints that did build
// are returned either way.
func BuildEndpoints(cfg *Config, defaults ...pulsecheck.EndpointOption) ([]pulsecheck.Endpoint, error) {
	var endpoints []pulsecheck.Endpoint
	var errs error

	for _, ec := range cfg.Endpoints {
		ep, err := buildEndpoint(ec, defaults)
		if err != nil {
			errs = multierr.Append(errs, &DescriptorError{Index: ec.Index, Line: ec.Line, Name: ec.Name, Err: err})
			continue
		}
		endpoints = append(endpoints, ep)
	}

	return endpoints, errs
}

// buildEndpoint converts a single EndpointConfig to an SDK Endpoint.
func buildEndpoint(ec EndpointConfig, defaults []pulsecheck.EndpointOption) (pulsecheck.Endpoint, error) {
	opts := append([]pulsecheck.EndpointOption(nil), defaults...)

	if ec.Method != "" {
		opts = append(opts, pulsecheck.WithMethod(ec.Method))
	}

	if ec.Timeout != 0 {
		opts = append(opts, pulsecheck.WithTimeout(ec.Timeout.Duration()))
	}

	if len(ec.Headers) > 0 {
		opts = append(opts, pulsecheck.WithHeaders(mapToKeyValuePairs(ec.Headers)...))
	}

	if ec.Body != nil {
		opts = append(opts, pulsecheck.WithBody(*ec.Body))
	}

	return pulsecheck.NewEndpoint(ec.Name, ec.URL, opts...)
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}

// LoadEndpoints reads path and returns every endpoint that could be built.
//
// Configuration errors (an unreadable file, invalid YAML, a document that is
// not a list) are logged and yield no endpoints. Each skipped descriptor is
// logged as a warning. Callers decide what an empty result means.
func LoadEndpoints(path string, logger *slog.Logger, defaults ...pulsecheck.EndpointOption) []pulsecheck.Endpoint {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := Load(path)
	if err != nil {
		logger.Error("failed to load configuration", "path", path, "error", err)
		return nil
	}

	endpoints, buildErr := BuildEndpoints(cfg, defaults...)

	for _, err := range multierr.Errors(multierr.Append(cfg.skipped, buildErr)) {
		logger.Warn("skipping endpoint", "path", path, "error", err)
	}

	logger.Debug("configuration loaded",
		"path", path,
		"endpoint_count", len(endpoints),
		"skipped", len(cfg.Endpoints)-len(endpoints)+len(cfg.Skipped()),
	)

	return endpoints
}
