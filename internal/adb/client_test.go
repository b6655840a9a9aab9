package adb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns a Client whose adb invocations are served by fn.
func fakeClient(fn runCmd) *Client {
	return &Client{run: fn}
}

func TestParseDeviceListEmpty(t *testing.T) {
	out := "List of devices attached\n\n"
	assert.Empty(t, parseDeviceList(out))
}

func TestParseDeviceList(t *testing.T) {
	out := strings.Join([]string{
		"List of devices attached",
		"emulator-5554          device product:sdk_gphone64 model:sdk_gphone64_x86_64 device:emu64x transport_id:1",
		"192.168.1.5:5555       device model:Pixel_7",
		"R58M42ABCDE            offline",
		"R58M42FGHIJ            unauthorized",
		"",
	}, "\n")

	devices := parseDeviceList(out)
	require.Len(t, devices, 4)

	assert.Equal(t, "emulator-5554", devices[0].Serial)
	assert.Equal(t, "device", devices[0].State)
	assert.Equal(t, USB, devices[0].ConnType)
	assert.Equal(t, "sdk_gphone64_x86_64", devices[0].Model)
	assert.True(t, devices[0].IsOnline())

	assert.Equal(t, WiFi, devices[1].ConnType)
	assert.Equal(t, "Pixel_7", devices[1].Model)

	assert.Equal(t, "offline", devices[2].State)
	assert.False(t, devices[2].IsOnline())
	assert.False(t, devices[3].IsOnline())
}

func TestParseDeviceListIgnoresMalformedLines(t *testing.T) {
	out := "List of devices attached\nlonelyserial\n  \nR58M42ABCDE\tdevice\n"
	devices := parseDeviceList(out)
	require.Len(t, devices, 1)
	assert.Equal(t, "R58M42ABCDE", devices[0].Serial)
}

// A serial containing the word "device" must not count as online when the
// state field says otherwise.
func TestParseDeviceListStateIsExactMatch(t *testing.T) {
	out := "List of devices attached\nmydevice123 offline\n"
	devices := parseDeviceList(out)
	require.Len(t, devices, 1)
	assert.False(t, devices[0].IsOnline())
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"fresh connection", "connected to 192.168.1.5:5555\n", false},
		{"already connected", "already connected to 192.168.1.5:5555\n", false},
		{"refused", "unable to connect to 192.168.1.5:5555\n", true},
		{"failed", "failed to connect to 192.168.1.5:5555\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fakeClient(func(name string, args ...string) ([]byte, error) {
				assert.Equal(t, "adb", name)
				assert.Equal(t, []string{"connect", "192.168.1.5:5555"}, args)
				return []byte(tt.output), nil
			})
			err := c.Connect("192.168.1.5", 5555)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnectCommandFailure(t *testing.T) {
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		return []byte("error: no devices/emulators found"), fmt.Errorf("exit status 1")
	})
	assert.Error(t, c.Connect("192.168.1.5", 5555))
}

func TestGetpropTrimsOutput(t *testing.T) {
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		assert.Equal(t, []string{"-s", "R58M42ABCDE", "shell", "getprop", "ro.product.model"}, args)
		return []byte("SM-G991B\r\n"), nil
	})
	model, err := c.Getprop("R58M42ABCDE", "ro.product.model")
	require.NoError(t, err)
	assert.Equal(t, "SM-G991B", model)
}

func TestShell(t *testing.T) {
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		assert.Equal(t, []string{"-s", "R58M42ABCDE", "shell", "ls", "/data/local/tmp"}, args)
		return []byte("minicap\n"), nil
	})
	assert.NoError(t, c.Shell("R58M42ABCDE", "ls", "/data/local/tmp"))

	broken := fakeClient(func(name string, args ...string) ([]byte, error) {
		return []byte("ls: /does/not/exist: No such file or directory"), fmt.Errorf("exit status 1")
	})
	assert.Error(t, broken.Shell("R58M42ABCDE", "ls", "/does/not/exist"))
}

func TestVersionBanner(t *testing.T) {
	c := fakeClient(func(name string, args ...string) ([]byte, error) {
		return []byte("Android Debug Bridge version 1.0.41\nVersion 34.0.4-android-tools\n"), nil
	})
	banner, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, "Android Debug Bridge version 1.0.41", banner)
}
