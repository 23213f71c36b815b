// Melair-ctl controls Mitsubishi air conditioners through their MAC-577IF-2E
// Wi-Fi adapter.
//
// It provides adapter discovery, status queries, setting changes, and a live
// monitor view. The tool communicates with adapters over HTTP on the local
// network and does not require cloud registration.
//
// Usage:
//
//	melair-ctl [command] [flags]
//
// Running without arguments prints the device status.
// See 'melair-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kazehome/melair/internal/logging"
	"github.com/kazehome/melair/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "melair-ctl",
	Short: "Mitsubishi Air Conditioner Control Utility",
	Long: `A standalone utility for Mitsubishi air conditioners with a
MAC-577IF-2E Wi-Fi adapter.

Provides mDNS discovery, status queries, setting changes, and a live
monitor view. All communication stays on the local network.

If no command is specified, the device status is printed.`,
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Silent by default. Set MELAIR_LOG_LEVEL=debug for frame dumps.
		if err := logging.InitializeFromEnv(); err != nil {
			// Ignore error, GetLogger will create fallback logger
			_ = err
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show status when no subcommand provided
		return runStatus(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("melair-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
