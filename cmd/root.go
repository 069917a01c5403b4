package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "topomon",
	Short: "Network topology monitor",
	Long: `topomon periodically observes the links of a network, sends the observation through an
encrypted channel, computes the spanning tree that keeps the highest bandwidth links and plots both.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Setup",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "mon",
		Title: "Monitoring",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./topomon.yaml if present)")
}
