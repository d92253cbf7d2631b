package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datakit-io/cdcexcludes/internal/extracts"
	"github.com/datakit-io/cdcexcludes/internal/warehouse"
)

// defaultConfigPath is where the extracts configuration lives relative to the
// repository's scripts directory.
const defaultConfigPath = "../config/extracts.json"

// NewValidateCmd builds and returns the 'validate' cobra command.
func NewValidateCmd() *cobra.Command {
	var configPath string
	var environment string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate extract configs against the CDC field exclude list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bind the environment flag into viper so TARGET_ENV acts as
			// its default.
			if err := viper.BindPFlag("environment", cmd.Flags().Lookup("environment")); err != nil {
				return err
			}
			if err := viper.BindEnv("environment", "TARGET_ENV"); err != nil {
				return err
			}
			viper.SetDefault("environment", "dev")
			return runValidate(configPath, viper.GetString("environment"))
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", defaultConfigPath, "Path to the extracts configuration file")
	cmd.Flags().StringVar(&environment, "environment", "", "Target environment for validation (default $TARGET_ENV, else dev)")
	return cmd
}

// runValidate is the entry point for the validate command.
func runValidate(configPath, environment string) error {
	log.Info().Str("environment", environment).Str("config", configPath).Msg("starting CDC field exclude validation")

	cfg, err := warehouseConfigFromEnv()
	if err != nil {
		return err
	}
	log.Info().Str("hostname", cfg.Hostname).Msg("Databricks hostname")

	ctx := context.Background()
	client, err := warehouse.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("closing warehouse connection")
		}
	}()

	excl, err := client.LoadExclusions(ctx)
	if err != nil {
		return err
	}

	return runPipeline(configPath, excl, os.Stdout)
}

// runPipeline validates the configuration at configPath against an already
// loaded exclude map and writes the report to out.
func runPipeline(configPath string, excl warehouse.ExclusionMap, out io.Writer) error {
	doc, err := extracts.LoadConfig(configPath)
	if err != nil {
		return err
	}

	decls := extracts.FindTableDeclarations(doc)
	if len(decls) == 0 {
		// Nothing to validate is not a failure.
		log.Warn().Msg("no TABLE statements found in extract configuration")
		return nil
	}

	return report(out, extracts.CheckAll(decls, excl))
}

// report prints one line per validation error and the final pass/fail
// summary. The report goes to out (stdout) so it is visible regardless of
// log level.
func report(out io.Writer, errs []*extracts.ValidationError) error {
	if len(errs) == 0 {
		fmt.Fprintln(out, "CDC field exclude validation PASSED: all required COLEXC statements are present")
		return nil
	}

	fmt.Fprintln(out, "CDC field exclude validation FAILED:")
	for _, e := range errs {
		fmt.Fprintf(out, "  %s\n", e)
	}
	fmt.Fprintln(out, "Fix these issues by adding the appropriate COLEXC statements to your extract configurations.")
	return fmt.Errorf("validation failed with %d error(s)", len(errs))
}
