package cmd

import (
	"log/slog"

	"github.com/encodeous/topomon/core"
	"github.com/encodeous/topomon/state"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the monitor",
	Long: `Runs an observation cycle every interval (5 minutes by default) until interrupted.
Each cycle writes network_plot_<timestamp>.png into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := state.LoadConfig(configPath)
		if err != nil {
			panic(err)
		}

		level := cfg.LogLevel()
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		once, _ := cmd.Flags().GetBool("once")

		cmd.SilenceUsage = true
		return core.Start(cfg, level, once)
	},
	GroupID: "mon",
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	runCmd.Flags().Bool("once", false, "Run a single cycle and exit")
}
