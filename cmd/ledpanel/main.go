// Ledpanel is an on-device control panel for a single networked LED.
//
// It draws the device's last confirmed state on a small display, toggles the
// LED when Confirm is pressed and exits on Back. Commands travel over HTTP,
// WebSocket or MQTT; every failure folds into a "disconnected" panel rather
// than an error.
//
// Usage:
//
//	ledpanel [command] [flags]
//
// Running without arguments starts the panel.
// See 'ledpanel --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ledpanel/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledpanel",
	Short: "LED Control Panel",
	Long: `An on-device control panel for a networked LED.

Shows the LED's last confirmed state and the connection status, toggles the
LED on OK and exits on Back. Talks to the device over HTTP, WebSocket or MQTT.

If no command is specified, the panel starts.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runPanel,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addConfigFlags(rootCmd)
	addPanelFlags(rootCmd)
	addPanelFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(emulateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}
