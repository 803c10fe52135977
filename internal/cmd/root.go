// Package cmd wires the CLI commands together.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/DekyCS/bagelhacks/internal/config"
	"github.com/DekyCS/bagelhacks/internal/logging"
)

var (
	flagConfigDir string
	flagLogLevel  string
	flagNoConsole bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bagelhacks",
	Short: "Mock interview backend with a lip-synced avatar",
	Long: `bagelhacks runs the backend of an AI mock-interview session: it mints
room tokens, follows the interview agent's speech to drive the avatar's
lip-sync and animations, records the transcript and produces the final
evaluation report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfigDir)
		if err != nil {
			return err
		}

		logCfg := logging.DefaultConfig()
		logCfg.Level = flagLogLevel
		logCfg.Console = !flagNoConsole
		log, err = logging.New(logCfg)
		return err
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default: ~/.bagelhacks)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "minimum log level")
	rootCmd.PersistentFlags().BoolVar(&flagNoConsole, "no-console-log", false, "log to file only")
}
