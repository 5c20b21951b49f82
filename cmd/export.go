package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intakeflow/intakeflow/internal/config"
	"github.com/intakeflow/intakeflow/internal/export"
)

var (
	exportMinScore int
	exportOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads as CSV",
	Long:  `Writes every conversation at or above the minimum lead score as CSV, best lead first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, sessions, _, _, err := loadStores(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		out := os.Stdout
		quiet := true
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
			quiet = false
		}

		n, err := export.Leads(cmd.Context(), sessions, out, export.Options{
			MinScore: exportMinScore,
			Quiet:    quiet,
		})
		if err != nil {
			return err
		}

		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "Exported %d lead(s) to %s\n", n, exportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportMinScore, "min-score", 0, "minimum lead score to include")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
