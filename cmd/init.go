package cmd

import (
	"github.com/spf13/cobra"

	"github.com/intakeflow/intakeflow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize intakeflow configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the server and write an intakeflow.yml file plus a starter client bundle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
