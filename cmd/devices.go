package cmd

import (
	"fmt"
	"os"

	"github.com/droidlab/droidprep/internal/adb"
	"github.com/droidlab/droidprep/internal/config"
	"github.com/droidlab/droidprep/internal/history"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List attached devices and their verification stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		adbClient := adb.NewClient()
		devices, err := adbClient.Devices()
		if err != nil {
			return err
		}

		if len(devices) == 0 {
			fmt.Println("No devices attached.")
			return nil
		}

		db, err := history.Open(config.ConfigDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		} else {
			defer db.Close()
		}

		for _, d := range devices {
			nickname := ""
			if dc, ok := cfg.Devices[d.Serial]; ok && dc.Nickname != "" {
				nickname = fmt.Sprintf(" (%s)", dc.Nickname)
			}

			status := d.State
			if !d.IsOnline() {
				status = "OFFLINE"
			}

			fmt.Printf("%-22s %s  [%s] [%s]%s\n",
				d.Serial, d.Model, d.ConnType, status, nickname)

			if db != nil {
				stats, err := db.GetDeviceStats(d.Serial)
				if err == nil && stats.TotalRuns > 0 {
					fmt.Printf("  Verified: %d/%d runs passed, last checked %s\n",
						stats.PassedRuns, stats.TotalRuns,
						stats.LastChecked.Format("2006-01-02 15:04"))
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
