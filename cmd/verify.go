package cmd

import (
	"fmt"
	"net"
	"os"

	"github.com/droidlab/droidprep/internal/adb"
	"github.com/droidlab/droidprep/internal/config"
	"github.com/droidlab/droidprep/internal/history"
	"github.com/droidlab/droidprep/internal/verify"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:               "verify [device_ip]",
	Short:             "Verify connected devices respond to adb",
	PersistentPreRunE: requireDeps(),
	Long: `Lists attached devices, reads their identifying properties, and runs a
loopback ping plus a filesystem listing on each to confirm the connection is
usable. With a device IP, connects over TCP/IP first. Exits 0 whether or not
devices are found; problems are reported as console text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var deviceIP string
		if len(args) > 0 {
			deviceIP = args[0]
			if net.ParseIP(deviceIP) == nil {
				return fmt.Errorf("%q is not a valid IP address", deviceIP)
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		verifier := &verify.Verifier{
			Bridge:  adb.NewClient(),
			TCPPort: cfg.TCPPort,
		}
		db, err := history.Open(config.ConfigDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		} else {
			defer db.Close()
			verifier.History = db
		}

		if deviceIP != "" {
			fmt.Printf("Connecting to %s:%d...\n", deviceIP, cfg.TCPPort)
		}
		result, err := verifier.Run(deviceIP)
		if err != nil {
			return err
		}
		printVerifyResult(result, cfg)
		return nil
	},
}

func printVerifyResult(result verify.Result, cfg *config.Config) {
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Error: %s\n", e)
	}
	if result.ConnectAddr != "" && !result.ConnectOK {
		fmt.Printf("Could not connect to %s.\n", result.ConnectAddr)
		return
	}

	if len(result.Devices) == 0 {
		fmt.Println("No connected devices found.")
		fmt.Println("Make sure that:")
		fmt.Println("  1. the device is attached via USB or reachable on the network")
		fmt.Println("  2. developer options are enabled on the device")
		fmt.Println("  3. USB debugging is enabled and authorized")
		return
	}

	fmt.Printf("Found %d connected device(s):\n", len(result.Devices))
	for _, r := range result.Devices {
		d := r.Device
		nickname := ""
		if dc, ok := cfg.Devices[d.Serial]; ok && dc.Nickname != "" {
			nickname = fmt.Sprintf(" (%s)", dc.Nickname)
		}
		fmt.Printf("\n%s%s\n", d.Serial, nickname)
		fmt.Printf("  Model:           %s\n", d.Model)
		fmt.Printf("  Manufacturer:    %s\n", d.Manufacturer)
		fmt.Printf("  Android version: %s\n", d.AndroidVersion)
		fmt.Printf("  Network probe:   %s\n", passFail(r.NetworkOK))
		fmt.Printf("  Filesystem probe: %s\n", passFail(r.FilesystemOK))
		if r.Passed() {
			fmt.Println("  Connection verified.")
		} else {
			fmt.Println("  Connection verification FAILED.")
		}
		for _, e := range r.Errors {
			fmt.Fprintf(os.Stderr, "  Error: %s\n", e)
		}
	}
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
