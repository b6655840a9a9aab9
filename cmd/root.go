package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version of droidprep.
const Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:     "droidprep",
	Short:   "Prepare and verify an Android UI-testing environment",
	Version: Version,
	Long: `droidprep drives adb and python to get a machine ready for Android UI
automation: it restarts the ADB server, switches devices to TCP/IP debugging,
installs the uiautomator2 toolchain, and verifies that attached devices
actually respond to shell commands.`,
}

// requireDeps returns a PersistentPreRunE that checks for external
// dependencies and prompts to nickname any new devices.
func requireDeps() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := checkDeps(); err != nil {
			return err
		}
		checkNewDevices()
		return nil
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
