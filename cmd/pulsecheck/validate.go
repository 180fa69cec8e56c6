package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jpalmerr/pulsecheck/config"
)

// validateCmd validates a config file without probing anything.
var validateCmd = &cobra.Command{
	Use:   "validate [config.yaml]",
	Short: "Validate a config file",
	Long: `Validate a pulsecheck configuration file without probing anything.

This command parses the YAML, expands environment variables, and builds
every endpoint. Descriptors that would be skipped at startup are listed.
It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - At least one endpoint is valid
  1 - The file is unusable or no endpoint is valid (details printed to stderr)

Example:
  pulsecheck validate -c endpoints.yaml
  pulsecheck validate endpoints.yaml --env-file .env`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (or pass it as the only argument)")
	validateCmd.Flags().String("env-file", "", "dotenv file loaded before ${VAR} expansion")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	configFile, err := resolveConfigPath(configFile, args)
	if err != nil {
		return err
	}
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	endpoints, buildErr := config.BuildEndpoints(cfg)
	skipped := append(cfg.Skipped(), multierr.Errors(buildErr)...)

	out := cmd.OutOrStdout()
	for _, err := range skipped {
		fmt.Fprintf(out, "  skipped: %v\n", err)
	}

	if len(endpoints) == 0 {
		return fmt.Errorf("invalid config: %w", errNoValidEndpoints)
	}

	domains := make(map[string]struct{})
	for _, ep := range endpoints {
		domains[ep.Domain()] = struct{}{}
	}

	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Endpoints: %d valid, %d skipped\n", len(endpoints), len(skipped))
	fmt.Fprintf(out, "  Domains:   %d\n", len(domains))

	return nil
}
