package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/datakit-io/cdcexcludes/internal/warehouse"
)

// NewRulesCmd builds and returns the 'rules' cobra command.
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the active CDC field exclude rules from the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd.OutOrStdout())
		},
	}
	return cmd
}

// runRules is the entry point for the rules command.
func runRules(out io.Writer) error {
	cfg, err := warehouseConfigFromEnv()
	if err != nil {
		return err
	}

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
	if len(excl) == 0 {
		fmt.Fprintln(out, "No active exclude rules.")
		return nil
	}

	rows := make([][]string, 0, len(excl))
	for _, table := range excl.Tables() {
		rows = append(rows, []string{table, strings.Join(excl[table], ", ")})
	}
	printTable(out, []string{"TABLE", "REQUIRED COLEXC FIELDS"}, rows)
	return nil
}
