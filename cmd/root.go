package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intakeflow",
	Short: "Conversational intake pipeline for professional-services firms",
	Long: `Intakeflow runs the chat intake pipeline for law firm websites:
it classifies every message's intent, maintains a monotonic lead score,
assesses case strength against known patterns and routes qualified leads
to the right attorney tier.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "intakeflow.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
