// Package report writes the machine-readable artifacts CI jobs consume
// after an environment setup: a status JSON and a requirements.txt.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/droidlab/droidprep/internal/pyenv"
)

// Status is the setup outcome consumed by Jenkins jobs.
type Status struct {
	Success   bool           `json:"success"`
	Timestamp string         `json:"timestamp"`
	Details   map[string]any `json:"details"`
}

// NewStatus creates a status report stamped with the current time.
func NewStatus(success bool, details map[string]any) Status {
	return Status{
		Success:   success,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Details:   details,
	}
}

// WriteStatus writes the status report as indented JSON.
func WriteStatus(path string, s Status) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// WriteRequirements writes a requirements.txt pinning the minimum versions
// of the UI-testing toolchain.
func WriteRequirements(path string, reqs []pyenv.Requirement) error {
	var b strings.Builder
	for _, r := range reqs {
		b.WriteString(r.Pin())
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write requirements: %w", err)
	}
	return nil
}
