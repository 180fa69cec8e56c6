// Package config loads pulsecheck endpoints from a YAML file.
//
// The document is a plain list of endpoint descriptors:
//
//	- name: orders
//	  url: https://api.example.com/orders
//	  method: POST
//	  headers:
//	    Content-Type: application/json
//	    Authorization: Bearer ${API_TOKEN}
//	  body: '{"dry_run": true}'
//
//	- name: home
//	  url: https://example.com/
//
// name and url are required and must not be blank. method defaults to GET, headers to none, and
// body to no body. timeout optionally overrides the default request timeout.
//
// A descriptor that is malformed is skipped and reported as a warning; the
// rest of the file still loads. A document that is not a list at all is a
// configuration error.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyConfig is returned when the document has no content.
	ErrEmptyConfig = errors.New("configuration is empty")

	// ErrNotList is returned when the top level of the document is not a
	// sequence of endpoint descriptors.
	ErrNotList = errors.New("configuration must be a list of endpoints")

	// ErrMissingField marks a descriptor without a name or url.
	ErrMissingField = errors.New("missing required field")
)

// Config is a parsed endpoint list.
//
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Endpoints holds the descriptors that parsed cleanly, in file order.
	Endpoints []EndpointConfig

	// skipped accumulates one error per rejected descriptor.
	skipped error
}

// Skipped returns one error per descriptor that was dropped while parsing,
// in file order. Each is a [*DescriptorError].
func (c *Config) Skipped() []error {
	return multierr.Errors(c.skipped)
}

// EndpointConfig is a single endpoint descriptor.
type EndpointConfig struct {
	// Name is the display name used in reports.
	Name string

	// URL is the probe target. Supports environment variable substitution:
	// ${VAR} or ${VAR:-default}
	URL string

	// Method is the HTTP method. Empty means GET.
	Method string

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string

	// Body is the request payload, or nil for none.
	// Supports environment variable substitution.
	Body *string

	// Timeout overrides the default request timeout when non-zero.
	Timeout Duration

	// Index is the descriptor's position in the list.
	Index int

	// Line is the descriptor's line in the source document.
	Line int
}

// DescriptorError describes why a descriptor was skipped.
type DescriptorError struct {
	Index int
	Line  int
	Name  string
	Err   error
}

func (e *DescriptorError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("endpoints[%d] (%s, line %d): %v", e.Index, e.Name, e.Line, e.Err)
	}
	return fmt.Sprintf("endpoints[%d] (line %d): %v", e.Index, e.Line, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// rawDescriptor mirrors the YAML shape of a descriptor before validation.
type rawDescriptor struct {
	Name    string            `yaml:"name"`
	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Headers map[string]string `yaml:"headers"`
	Body    yaml.Node         `yaml:"body"`
	Timeout Duration          `yaml:"timeout"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed <= 0 {
		return fmt.Errorf("duration must be positive, got %s", parsed)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML endpoint list.
//
// Returns an error if the file cannot be read or is not a list. Problems
// with individual descriptors are not errors; see [Config.Skipped].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML endpoint list.
//
// The document must be a sequence; a mapping or scalar at the top level
// yields [ErrNotList] and an empty document yields [ErrEmptyConfig]. Each
// element is decoded on its own, so a bad descriptor is recorded in
// [Config.Skipped] without affecting its neighbours. Environment variables are
// expanded in url, header values and body.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyConfig
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, ErrEmptyConfig
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w, got %s at line %d", ErrNotList, nodeKindName(root), root.Line)
	}

	cfg := &Config{}
	for i, item := range root.Content {
		ec, err := parseDescriptor(i, item)
		if err != nil {
			cfg.skipped = multierr.Append(cfg.skipped, err)
			continue
		}
		cfg.Endpoints = append(cfg.Endpoints, ec)
	}

	return cfg, nil
}

// parseDescriptor decodes and validates one list element.
func parseDescriptor(index int, node *yaml.Node) (EndpointConfig, error) {
	fail := func(name string, err error) (EndpointConfig, error) {
		return EndpointConfig{}, &DescriptorError{Index: index, Line: node.Line, Name: name, Err: err}
	}

	if node.Kind != yaml.MappingNode {
		return fail("", fmt.Errorf("descriptor must be a mapping, got %s", nodeKindName(node)))
	}

	var raw rawDescriptor
	if err := node.Decode(&raw); err != nil {
		return fail("", fmt.Errorf("failed to decode: %w", err))
	}

	// a blank value is as unusable as an absent key
	if raw.Name == "" {
		return fail("", fmt.Errorf("%w: name", ErrMissingField))
	}
	if raw.URL == "" {
		return fail(raw.Name, fmt.Errorf("%w: url", ErrMissingField))
	}

	ec := EndpointConfig{
		Name:    raw.Name,
		Method:  raw.Method,
		Timeout: raw.Timeout,
		Index:   index,
		Line:    node.Line,
	}

	expanded, err := expandEnvVars(raw.URL)
	if err != nil {
		return fail(raw.Name, fmt.Errorf("url: %w", err))
	}
	ec.URL = expanded

	if len(raw.Headers) > 0 {
		ec.Headers = make(map[string]string, len(raw.Headers))
		for k, v := range raw.Headers {
			expanded, err := expandEnvVars(v)
			if err != nil {
				return fail(raw.Name, fmt.Errorf("headers[%s]: %w", k, err))
			}
			ec.Headers[k] = expanded
		}
	}

	body, err := decodeBody(&raw.Body)
	if err != nil {
		return fail(raw.Name, err)
	}
	if body != nil {
		expanded, err := expandEnvVars(*body)
		if err != nil {
			return fail(raw.Name, fmt.Errorf("body: %w", err))
		}
		ec.Body = &expanded
	}

	return ec, nil
}

// decodeBody returns the literal text of a scalar body, or nil when the key
// is absent or null.
func decodeBody(node *yaml.Node) (*string, error) {
	switch {
	case node.Kind == 0:
		return nil, nil
	case node.Kind == yaml.ScalarNode && node.Tag == "!!null":
		return nil, nil
	case node.Kind == yaml.ScalarNode:
		s := node.Value
		return &s, nil
	default:
		return nil, fmt.Errorf("body must be a string, got %s", nodeKindName(node))
	}
}

func nodeKindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
