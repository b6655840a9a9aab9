package cmd

import (
	"fmt"
	"os"

	"github.com/droidlab/droidprep/internal/adb"
	"github.com/droidlab/droidprep/internal/config"
	"github.com/droidlab/droidprep/internal/hostnet"

	"github.com/spf13/cobra"
)

var networkPort int

var networkCmd = &cobra.Command{
	Use:               "network",
	Short:             "Restart the ADB server and enable TCP/IP debugging",
	PersistentPreRunE: requireDeps(),
	Long: `Restarts the host ADB server, switches attached devices to TCP/IP
debugging mode, and verifies the server is listening. At least one device
must be attached via USB for TCP/IP mode to take effect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		adbClient := adb.NewClient()

		fmt.Println("Restarting ADB server...")
		if err := adbClient.RestartServer(); err != nil {
			return fmt.Errorf("restart ADB server: %w", err)
		}

		devices, err := adbClient.Devices()
		if err != nil {
			return err
		}
		usbOnline := false
		for _, d := range devices {
			if d.IsOnline() && d.ConnType == adb.USB {
				usbOnline = true
				break
			}
		}
		if !usbOnline {
			fmt.Println("No USB device detected; TCP/IP mode cannot be enabled.")
			fmt.Println("To enable it:")
			fmt.Println("  1. attach a device via USB")
			fmt.Println("  2. enable USB debugging in developer options")
			fmt.Println("  3. accept the debugging prompt on the device")
			fmt.Println("  4. run this command again")
			return nil
		}

		if err := adbClient.TCPIP(networkPort); err != nil {
			return fmt.Errorf("enable TCP/IP mode: %w", err)
		}
		fmt.Printf("TCP/IP mode enabled (port %d).\n", networkPort)

		if !hostnet.PortListening(hostnet.ADBServerPort) {
			return fmt.Errorf("ADB server port (%d) is not listening", hostnet.ADBServerPort)
		}
		fmt.Printf("ADB server is listening on port %d.\n", hostnet.ADBServerPort)

		ifaces, err := hostnet.Interfaces()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not list network interfaces: %v\n", err)
		} else {
			fmt.Println("\nAvailable network interfaces:")
			for _, iface := range ifaces {
				fmt.Printf("  %s\n", iface.Name)
				for _, addr := range iface.Addrs {
					fmt.Printf("    %s\n", addr)
				}
			}
		}

		fmt.Println("\nNext steps:")
		fmt.Println("  1. note the device's IP address (Settings > About > Status)")
		fmt.Println("  2. disconnect the USB cable")
		fmt.Printf("  3. run: droidprep verify <device_ip>   (connects on port %d)\n", networkPort)
		return nil
	},
}

func init() {
	networkCmd.Flags().IntVar(&networkPort, "port", config.DefaultTCPPort, "TCP/IP debugging port")
	rootCmd.AddCommand(networkCmd)
}
