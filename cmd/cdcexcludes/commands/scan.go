package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/datakit-io/cdcexcludes/internal/extracts"
)

// NewScanCmd builds and returns the 'scan' cobra command.
func NewScanCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List TABLE declarations found in an extracts configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(configPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", defaultConfigPath, "Path to the extracts configuration file")
	return cmd
}

// runScan is the entry point for the scan command. It runs only the parser
// and extractor, so no warehouse connection is needed.
func runScan(configPath string, out io.Writer) error {
	doc, err := extracts.LoadConfig(configPath)
	if err != nil {
		return err
	}

	decls := extracts.FindTableDeclarations(doc)
	if len(decls) == 0 {
		fmt.Fprintln(out, "No TABLE statements found.")
		return nil
	}

	rows := make([][]string, 0, len(decls))
	for _, d := range decls {
		table := extracts.TableName(d.Statement)
		if table == "" {
			table = "(unresolved)"
		}
		rows = append(rows, []string{d.Extract, table, d.Statement})
	}
	printTable(out, []string{"EXTRACT", "TABLE", "STATEMENT"}, rows)

	log.Debug().Int("declarations", len(decls)).Msg("scan complete")
	return nil
}
