package pyenv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClient(fn runCmd) *Client {
	return &Client{python: "python3", run: fn}
}

func TestParsePythonVersion(t *testing.T) {
	tests := []struct {
		output string
		major  int
		minor  int
		ok     bool
	}{
		{"Python 3.11.2\n", 3, 11, true},
		{"Python 3.6.0", 3, 6, true},
		{"Python 2.7.18\n", 2, 7, true},
		{"command not found", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		major, minor, ok := parsePythonVersion(tt.output)
		assert.Equal(t, tt.ok, ok, tt.output)
		assert.Equal(t, tt.major, major, tt.output)
		assert.Equal(t, tt.minor, minor, tt.output)
	}
}

func TestCheckVersion(t *testing.T) {
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		return []byte("Python 3.9.7\n"), nil
	})
	assert.NoError(t, c.CheckVersion())

	old := fakeClient(func(name string, args ...string) ([]byte, error) {
		return []byte("Python 3.5.10\n"), nil
	})
	assert.Error(t, old.CheckVersion())

	two := fakeClient(func(name string, args ...string) ([]byte, error) {
		return []byte("Python 2.7.18\n"), nil
	})
	assert.Error(t, two.CheckVersion())
}

func TestImportOK(t *testing.T) {
	var gotArgs []string
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		gotArgs = args
		if args[len(args)-1] == "import cv2" {
			return []byte("ModuleNotFoundError: No module named 'cv2'"), fmt.Errorf("exit status 1")
		}
		return nil, nil
	})
	assert.True(t, c.ImportOK("uiautomator2"))
	assert.False(t, c.ImportOK("cv2"))
	assert.Equal(t, []string{"-c", "import cv2"}, gotArgs)
}

func TestInstallWrapsFailure(t *testing.T) {
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		require.Equal(t, []string{"-m", "pip", "install", "-U", "adbutils"}, args)
		return []byte("ERROR: No matching distribution"), fmt.Errorf("exit status 1")
	})
	err := c.Install("adbutils")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adbutils")
}

func TestRequirementPin(t *testing.T) {
	assert.Equal(t, "pillow>=8.0.0", Requirement{Package: "pillow", Module: "PIL", Min: "8.0.0"}.Pin())
}
