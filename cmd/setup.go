package cmd

import (
	"fmt"
	"os"

	"github.com/droidlab/droidprep/internal/adb"
	"github.com/droidlab/droidprep/internal/pyenv"
	"github.com/droidlab/droidprep/internal/report"

	"github.com/spf13/cobra"
)

var (
	setupFull       bool
	setupReportPath string
)

var setupCmd = &cobra.Command{
	Use:               "setup",
	Short:             "Install and verify the Python UI-testing toolchain",
	PersistentPreRunE: requireDeps(),
	Long: `Checks the Python interpreter, installs the uiautomator2 toolchain via
pip, verifies every package imports, and confirms the ADB server responds.
With --full it also initializes uiautomator2 on attached devices, writes
requirements.txt, and emits a setup_status.json report for CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(setupFull, setupReportPath)
	},
}

// runSetup is the setup workflow, shared with `droidprep run`.
func runSetup(full bool, reportPath string) error {
	python := pyenv.NewClient()
	details := map[string]any{}
	success := true

	// CI reads the report even when setup aborts early.
	finish := func() {
		if !full {
			return
		}
		if err := report.WriteStatus(reportPath, report.NewStatus(success, details)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write status report: %v\n", err)
		} else {
			fmt.Printf("Status report written to %s\n", reportPath)
		}
	}
	defer finish()

	fmt.Printf("Checking Python interpreter (%s)...\n", python.Interpreter())
	if err := python.CheckVersion(); err != nil {
		details["python_version"] = false
		success = false
		return err
	}
	details["python_version"] = true

	fmt.Println("\nInstalling required packages...")
	var failed []string
	for _, req := range pyenv.Requirements {
		fmt.Printf("  installing %s...\n", req.Package)
		if err := python.Install(req.Package); err != nil {
			fmt.Fprintf(os.Stderr, "  failed: %v\n", err)
			failed = append(failed, req.Package)
		}
	}
	details["package_installation"] = map[string]any{
		"success":         len(failed) == 0,
		"failed_packages": failed,
	}
	if len(failed) > 0 {
		success = false
		return fmt.Errorf("failed to install: %v", failed)
	}

	fmt.Println("\nVerifying installation...")
	verified := map[string]bool{}
	allImported := true
	for _, req := range pyenv.Requirements {
		ok := python.ImportOK(req.Module)
		verified[req.Package] = ok
		if ok {
			fmt.Printf("  %s installed\n", req.Package)
		} else {
			fmt.Printf("  %s NOT importable\n", req.Package)
			allImported = false
		}
	}
	details["package_verification"] = verified
	if !allImported {
		success = false
		fmt.Println("\nSome packages did not import; try installing them manually.")
	}

	fmt.Println("\nChecking ADB server...")
	banner, err := adb.NewClient().Version()
	if err != nil {
		details["adb_server"] = false
		success = false
		fmt.Fprintf(os.Stderr, "ADB check failed: %v\n", err)
		fmt.Println("Make sure the Android platform tools are installed and adb is on PATH.")
		return nil
	}
	details["adb_server"] = true
	fmt.Printf("  %s\n", banner)

	if full {
		fmt.Println("\nInitializing uiautomator2 on attached devices...")
		if err := python.InitUIAutomator(); err != nil {
			details["uiautomator2_setup"] = false
			success = false
			fmt.Fprintf(os.Stderr, "uiautomator2 init failed: %v\n", err)
		} else {
			details["uiautomator2_setup"] = true
		}

		if err := report.WriteRequirements("requirements.txt", pyenv.Requirements); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			fmt.Println("requirements.txt written.")
		}
	}

	if success {
		fmt.Println("\nEnvironment setup complete.")
		fmt.Println("Next: attach a device with USB debugging enabled and run 'droidprep verify'.")
	} else {
		fmt.Println("\nEnvironment setup finished with problems; see output above.")
	}
	return nil
}

func init() {
	setupCmd.Flags().BoolVar(&setupFull, "full", false, "Also init uiautomator2 and write requirements.txt + status report")
	setupCmd.Flags().StringVar(&setupReportPath, "report", "setup_status.json", "Status report path (with --full)")
	rootCmd.AddCommand(setupCmd)
}
