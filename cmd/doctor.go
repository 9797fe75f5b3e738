package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/aetherclaw/internal/config"
	"github.com/nextlevelbuilder/aetherclaw/internal/envfile"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check environment and configuration health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("aetherclaw doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND)")
	} else {
		fmt.Println(" (OK)")
	}

	envPath := config.DefaultEnvPath()
	fmt.Printf("  Secrets:  %s", envPath)
	if _, err := os.Stat(envPath); err != nil {
		fmt.Println(" (NOT FOUND)")
	} else {
		fmt.Println(" (OK)")
	}

	fmt.Println()
	fmt.Println("  Channels:")
	if _, paired := envfile.Current(); paired {
		fmt.Println("    Telegram: paired")
	} else {
		fmt.Println("    Telegram: not paired (run: aetherclaw onboard)")
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}
