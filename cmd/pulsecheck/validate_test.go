package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jpalmerr/pulsecheck/config"
)

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeFile(t, "config.yaml", `
- name: Home
  url: https://example.com/
- name: Orders
  url: https://api.example.com:8443/orders
  method: POST
  body: '{}'
- name: Status
  url: https://api.example.com/status
`)

	output, _, err := executeCmd(t, context.Background(), "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Endpoints: 3 valid, 0 skipped",
		"Domains:   2",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_PositionalArgument(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "- name: a\n  url: https://a.example.com\n")

	output, _, err := executeCmd(t, context.Background(), "validate", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "Config is valid!") {
		t.Errorf("output = %q", output)
	}
}

func TestRunValidate_ListsSkipped(t *testing.T) {
	configPath := writeFile(t, "config.yaml", `
- name: good
  url: https://example.com
- name: no-url
- name: bad-method
  url: https://example.com
  method: "not a token"
`)

	output, _, err := executeCmd(t, context.Background(), "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	for _, phrase := range []string{"skipped:", "no-url", "bad-method", "1 valid, 2 skipped"} {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_MappingTopLevel(t *testing.T) {
	configPath := writeFile(t, "config.yaml", `
endpoints:
  - name: Test
    url: https://example.com
`)

	_, _, err := executeCmd(t, context.Background(), "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for mapping config, got nil")
	}
	if !errors.Is(err, config.ErrNotList) {
		t.Errorf("error = %v, want ErrNotList", err)
	}
}

func TestRunValidate_NoValidEndpoints(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "- name: only-name\n")

	_, _, err := executeCmd(t, context.Background(), "validate", "-c", configPath)
	if !errors.Is(err, errNoValidEndpoints) {
		t.Errorf("error = %v, want errNoValidEndpoints", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, _, err := executeCmd(t, context.Background(), "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunValidate_NoConfig(t *testing.T) {
	_, _, err := executeCmd(t, context.Background(), "validate")
	if err == nil || !strings.Contains(err.Error(), "config file is required") {
		t.Errorf("error = %v, want missing config error", err)
	}
}

func TestRunValidate_EnvFile(t *testing.T) {
	const key = "PULSECHECK_CMD_TEST_HOST"
	t.Setenv(key, "") // registers cleanup; unset below so the env file supplies it
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	envPath := writeFile(t, ".env", key+"=status.example.com\n")
	configPath := writeFile(t, "config.yaml", "- name: a\n  url: https://${"+key+"}/health\n")

	output, _, err := executeCmd(t, context.Background(), "validate", "-c", configPath, "--env-file", envPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "1 valid, 0 skipped") {
		t.Errorf("output = %q", output)
	}
}
