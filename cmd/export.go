package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refshelf/refshelf/internal/config"
	"github.com/refshelf/refshelf/internal/export"
)

func newExportCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library to a Parquet file",
		Long: `Exports every record from the configured backend to a flat
Parquet file suitable for offline analysis.`,
		Example: `  # Export to the default file
  refshelf export

  # Export to a custom path
  refshelf export --out snapshots/library.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.SheetsURL == "" {
				return fmt.Errorf("export requires a configured records backend (set sheetsUrl or SHEETS_URL)")
			}

			n, err := export.WriteLibrary(cmd.Context(), newStore(cfg), out)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d records to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "library.parquet", "Output file path")

	return cmd
}
