package pyenv

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// runCmd executes an external command and returns its combined output.
// Swapped out in tests so no real python is needed.
type runCmd func(name string, args ...string) ([]byte, error)

// Client wraps python/pip command-line calls.
type Client struct {
	python string
	run    runCmd
}

// NewClient creates a python client, preferring `python3` when both
// interpreter names are on PATH.
func NewClient() *Client {
	python := "python"
	if _, err := exec.LookPath("python3"); err == nil {
		python = "python3"
	}
	return &Client{
		python: python,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// Interpreter returns the interpreter binary this client shells out to.
func (c *Client) Interpreter() string {
	return c.python
}

// Version returns the interpreter's major and minor version.
func (c *Client) Version() (major, minor int, err error) {
	out, err := c.run(c.python, "--version")
	if err != nil {
		return 0, 0, fmt.Errorf("%s --version: %w\n%s", c.python, err, out)
	}
	major, minor, ok := parsePythonVersion(string(out))
	if !ok {
		return 0, 0, fmt.Errorf("unexpected python version output: %q", strings.TrimSpace(string(out)))
	}
	return major, minor, nil
}

// CheckVersion verifies the interpreter is Python 3.6 or newer, the floor
// for uiautomator2.
func (c *Client) CheckVersion() error {
	major, minor, err := c.Version()
	if err != nil {
		return err
	}
	if major != 3 || minor < 6 {
		return fmt.Errorf("python 3.6+ required, found %d.%d", major, minor)
	}
	return nil
}

// Install installs or upgrades a single package via pip.
func (c *Client) Install(pkg string) error {
	out, err := c.run(c.python, "-m", "pip", "install", "-U", pkg)
	if err != nil {
		return fmt.Errorf("pip install %s: %w\n%s", pkg, err, out)
	}
	return nil
}

// ImportOK reports whether a module can be imported, which is the only
// reliable installed-check across pip versions.
func (c *Client) ImportOK(module string) bool {
	_, err := c.run(c.python, "-c", "import "+module)
	return err == nil
}

// InitUIAutomator pushes the uiautomator2 agent to attached devices.
func (c *Client) InitUIAutomator() error {
	out, err := c.run(c.python, "-m", "uiautomator2", "init")
	if err != nil {
		return fmt.Errorf("uiautomator2 init: %w\n%s", err, out)
	}
	return nil
}

// RunScript executes a python script with the caller's terminal attached,
// so test output streams through as it is produced.
func (c *Client) RunScript(path string) error {
	cmd := exec.Command(c.python, path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	return nil
}

// parsePythonVersion extracts major.minor from `python --version` output
// like "Python 3.11.2".
func parsePythonVersion(output string) (major, minor int, ok bool) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || fields[0] != "Python" {
		return 0, 0, false
	}
	parts := strings.Split(fields[1], ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
