// Package cmd wires the aetherclaw CLI commands.
package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/aetherclaw/internal/config"
)

// Version is overridable via ldflags at build time.
var Version = "0.3.0"

var verbose bool

// Execute runs the CLI. It loads the secrets env file into the process
// environment before any command runs.
func Execute() {
	root := &cobra.Command{
		Use:          "aetherclaw",
		Short:        "Aether-Claw companion CLI — pair your agent with messaging channels",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
			// Missing env files are fine on first run.
			_ = godotenv.Load(config.DefaultEnvPath())
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(onboardCmd())
	root.AddCommand(channelsCmd())
	root.AddCommand(configCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if p := os.Getenv("AETHERCLAW_CONFIG"); p != "" {
		return config.ExpandHome(p)
	}
	return config.DefaultPath()
}
