package cmd

import (
	"fmt"

	"github.com/droidlab/droidprep/internal/config"
	"github.com/droidlab/droidprep/internal/history"

	"github.com/spf13/cobra"
)

var (
	historyDevice string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded device verification runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := history.Open(config.ConfigDir())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		runs, err := db.Runs(historyDevice, historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No verification runs recorded yet.")
			return nil
		}

		for _, r := range runs {
			outcome := "PASS"
			if !r.Passed() {
				outcome = "FAIL"
			}
			fmt.Printf("%s  %-22s %-20s Android %-8s [%s]\n",
				r.CheckedAt.Format("2006-01-02 15:04"),
				r.Serial, r.Model, r.AndroidVersion, outcome)
			if !r.NetworkOK {
				fmt.Println("    network probe failed")
			}
			if !r.FilesystemOK {
				fmt.Println("    filesystem probe failed")
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyDevice, "device", "d", "", "Device serial (default: all)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
