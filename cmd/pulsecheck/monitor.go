package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/pulsecheck"
	"github.com/jpalmerr/pulsecheck/config"
	"github.com/jpalmerr/pulsecheck/internal/logging"
)

const (
	defaultInterval = 15 * time.Second

	// minInterval prevents accidental DoS of endpoints with overly aggressive probing.
	minInterval = 1 * time.Second

	shutdownTimeout = 10 * time.Second
)

var errNoValidEndpoints = errors.New("no valid endpoints configured")

// monitorCmd probes the configured endpoints until interrupted.
var monitorCmd = &cobra.Command{
	Use:   "monitor [config.yaml]",
	Short: "Monitor endpoint availability",
	Long: `Load endpoints from a YAML file and probe them until interrupted.

Every cycle each endpoint is probed once. After the cycle, the availability
of every domain in that cycle and the lifetime availability of every
endpoint are logged. The next cycle starts --interval after the report.

Descriptors that are malformed are skipped with a warning. If no endpoint
remains, the command exits with an error.

The command runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  pulsecheck monitor endpoints.yaml
  pulsecheck monitor -c endpoints.yaml --interval 30s --concurrency 4
  pulsecheck monitor -c endpoints.yaml --env-file .env --log-file /var/log/pulsecheck.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	flags := monitorCmd.Flags()
	flags.StringP("config", "c", "", "path to config file (or pass it as the only argument)")
	flags.Duration("interval", defaultInterval, "pause between the end of one cycle and the start of the next")
	flags.Duration("timeout", pulsecheck.DefaultTimeout, "per-request timeout, also the latency threshold for availability")
	flags.Int("concurrency", 1, "number of endpoints probed at once")
	flags.String("env-file", "", "dotenv file loaded before ${VAR} expansion")
	flags.String("log-file", "", "also write logs to this file, rotated by size")
	flags.String("log-format", string(logging.FormatText), "log format: text or json")
	flags.BoolP("verbose", "v", false, "log every probe")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	interval, _ := flags.GetDuration("interval")
	timeout, _ := flags.GetDuration("timeout")
	concurrency, _ := flags.GetInt("concurrency")
	envFile, _ := flags.GetString("env-file")
	logFile, _ := flags.GetString("log-file")
	logFormat, _ := flags.GetString("log-format")
	verbose, _ := flags.GetBool("verbose")

	configFile, err := resolveConfigPath(configFile, args)
	if err != nil {
		return err
	}
	if interval < minInterval {
		return fmt.Errorf("--interval must be at least %s, got %s", minInterval, interval)
	}
	if timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", timeout)
	}
	if concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
	}
	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return err
	}

	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Format:  format,
		Verbose: verbose,
		File:    logFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	endpoints := config.LoadEndpoints(configFile, logger, pulsecheck.WithTimeout(timeout))
	if len(endpoints) == 0 {
		return errNoValidEndpoints
	}
	logger.Info("config loaded", "path", configFile, "endpoints", len(endpoints))

	m, err := pulsecheck.New(
		pulsecheck.WithEndpoints(endpoints...),
		pulsecheck.WithInterval(interval),
		pulsecheck.WithMaxConcurrency(concurrency),
		pulsecheck.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- m.Run(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("monitor error: %w", err)
		}
		return nil

	case <-ctx.Done():
		// interrupted: in-flight probes are bounded by their timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("monitor error: %w", err)
			}
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

// resolveConfigPath picks the config file from the positional argument or
// the --config flag. The positional argument wins when both are given.
func resolveConfigPath(flagValue string, args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	return "", errors.New("a config file is required (use -c or pass it as an argument)")
}

// loadEnvFile loads a dotenv file without overriding variables that are
// already set. An empty path is a no-op.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}
