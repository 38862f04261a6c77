package cmd

import (
	"fmt"

	"github.com/danielpatrickdp/dosha-lens/internal/config"
	"github.com/danielpatrickdp/dosha-lens/internal/history"
	"github.com/danielpatrickdp/dosha-lens/internal/report"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "doshactl",
	Short:         "doshactl: dosha estimator",
	Long:          "Scores lifestyle metrics into Vata, Pitta or Kapha, streams simulated sensor readings and keeps a local history.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sensorCmd)
}

// #region exit-codes

// exitErr is returned to request a specific exit code without an error message.
// replay: 0=all match, 1=divergence.
type exitErr struct{ code int }

func (e exitErr) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

// ExitCode extracts the exit code from an exitErr.
// Returns -1 if the error is not an exitErr.
func ExitCode(err error) int {
	if ee, ok := err.(exitErr); ok {
		return ee.code
	}
	return -1
}

// #endregion exit-codes

// #region helpers

func openHistory() (*history.Store, error) {
	store, err := history.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", cfg.DBPath, err)
	}
	return store, nil
}

func writer(cmd *cobra.Command) *report.Writer {
	return report.New(cmd.OutOrStdout())
}

// #endregion helpers
