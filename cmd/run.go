package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/droidlab/droidprep/internal/config"
	"github.com/droidlab/droidprep/internal/pyenv"

	"github.com/spf13/cobra"
)

var runSkipSetup bool

var runCmd = &cobra.Command{
	Use:               "run [url]",
	Short:             "Download a UI automation script and execute it",
	PersistentPreRunE: requireDeps(),
	Long: `Downloads a Python test script into a temporary directory, makes sure the
environment is set up, then executes it. The URL defaults to script_url from
the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		url := cfg.ScriptURL
		if len(args) > 0 {
			url = args[0]
		}
		if url == "" {
			return fmt.Errorf("no script URL given and script_url is not set in %s", config.ConfigPath())
		}

		tmpDir, err := os.MkdirTemp("", "droidprep-run-")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		scriptPath := filepath.Join(tmpDir, "ui_automation.py")
		fmt.Printf("Downloading %s...\n", url)
		if err := download(url, scriptPath); err != nil {
			return err
		}

		if !runSkipSetup {
			fmt.Println("\nPreparing environment...")
			if err := runSetup(false, ""); err != nil {
				return fmt.Errorf("environment setup: %w", err)
			}
		}

		fmt.Println("\nRunning UI automation test...")
		if err := pyenv.NewClient().RunScript(scriptPath); err != nil {
			return fmt.Errorf("test execution failed: %w", err)
		}
		fmt.Println("\nTest run complete.")
		return nil
	},
}

// download fetches a URL to a local file.
func download(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

func init() {
	runCmd.Flags().BoolVar(&runSkipSetup, "skip-setup", false, "Skip the environment setup step")
	rootCmd.AddCommand(runCmd)
}
