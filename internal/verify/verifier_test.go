package verify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/droidlab/droidprep/internal/adb"
	"github.com/droidlab/droidprep/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	devices    []adb.Device
	devicesErr error
	connectErr error
	props      map[string]string // "serial/prop" -> value
	propErr    map[string]bool   // "serial/prop" -> fail
	shellErr   map[string]bool   // "serial/cmd" -> fail

	connectCalls int
	devicesCalls int
}

func (f *fakeBridge) Devices() ([]adb.Device, error) {
	f.devicesCalls++
	return f.devices, f.devicesErr
}

func (f *fakeBridge) Connect(ip string, port int) error {
	f.connectCalls++
	return f.connectErr
}

func (f *fakeBridge) Getprop(serial, prop string) (string, error) {
	key := serial + "/" + prop
	if f.propErr[key] {
		return "", fmt.Errorf("adb getprop %s: exit status 1", prop)
	}
	return f.props[key], nil
}

func (f *fakeBridge) Shell(serial string, args ...string) error {
	key := serial + "/" + args[0]
	if f.shellErr[key] {
		return fmt.Errorf("adb shell %s: exit status 1", strings.Join(args, " "))
	}
	return nil
}

type fakeRecorder struct {
	runs []history.Run
	err  error
}

func (f *fakeRecorder) RecordRun(r history.Run) error {
	f.runs = append(f.runs, r)
	return f.err
}

func onlineDevice(serial string) adb.Device {
	return adb.Device{Serial: serial, State: "device", ConnType: adb.USB}
}

func TestListDevicesEmpty(t *testing.T) {
	v := &Verifier{Bridge: &fakeBridge{}}
	devices, err := v.ListDevices()
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestListDevicesSkipsOffline(t *testing.T) {
	bridge := &fakeBridge{
		devices: []adb.Device{
			onlineDevice("A"),
			{Serial: "B", State: "offline"},
			{Serial: "C", State: "unauthorized"},
		},
		props: map[string]string{
			"A/ro.product.model":         "SM-G991B",
			"A/ro.build.version.release": "14",
			"A/ro.product.manufacturer":  "samsung",
		},
	}
	v := &Verifier{Bridge: bridge}

	devices, err := v.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "A", devices[0].Serial)
	assert.Equal(t, "SM-G991B", devices[0].Model)
	assert.Equal(t, "14", devices[0].AndroidVersion)
	assert.Equal(t, "samsung", devices[0].Manufacturer)
}

func TestListDevicesUnknownOnPropFailure(t *testing.T) {
	bridge := &fakeBridge{
		devices: []adb.Device{onlineDevice("A")},
		props: map[string]string{
			"A/ro.product.model":        "Pixel 7",
			"A/ro.product.manufacturer": "Google",
		},
		propErr: map[string]bool{"A/ro.build.version.release": true},
	}
	v := &Verifier{Bridge: bridge}

	devices, err := v.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Unknown", devices[0].AndroidVersion)
	// other fields unaffected
	assert.Equal(t, "Pixel 7", devices[0].Model)
	assert.Equal(t, "Google", devices[0].Manufacturer)
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name     string
		shellErr map[string]bool
		want     bool
	}{
		{"both pass", nil, true},
		{"ping fails", map[string]bool{"A/ping": true}, false},
		{"ls fails", map[string]bool{"A/ls": true}, false},
		{"both fail", map[string]bool{"A/ping": true, "A/ls": true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Verifier{Bridge: &fakeBridge{shellErr: tt.shellErr}}
			assert.Equal(t, tt.want, v.TestConnection(onlineDevice("A")))
		})
	}
}

func TestRunConnectFailureStopsEarly(t *testing.T) {
	bridge := &fakeBridge{connectErr: fmt.Errorf("adb connect 192.168.1.5:5555: unable to connect")}
	v := &Verifier{Bridge: bridge}

	result, err := v.Run("192.168.1.5")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.5:5555", result.ConnectAddr)
	assert.False(t, result.ConnectOK)
	assert.Empty(t, result.Devices)
	require.Len(t, result.Errors, 1)
	// No listing happens when the connect failed
	assert.Equal(t, 0, bridge.devicesCalls)
}

func TestRunHonorsConfiguredPort(t *testing.T) {
	bridge := &fakeBridge{}
	v := &Verifier{Bridge: bridge, TCPPort: 5037}

	result, err := v.Run("10.0.0.9")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9:5037", result.ConnectAddr)
	assert.True(t, result.ConnectOK)
	assert.Equal(t, 1, bridge.connectCalls)
}

func TestRunListingFailureDegrades(t *testing.T) {
	bridge := &fakeBridge{devicesErr: fmt.Errorf("adb devices: exit status 1")}
	v := &Verifier{Bridge: bridge}

	result, err := v.Run("")
	require.NoError(t, err)
	assert.Empty(t, result.Devices)
	require.Len(t, result.Errors, 1)
}

func TestRunRecordsHistory(t *testing.T) {
	bridge := &fakeBridge{
		devices: []adb.Device{onlineDevice("A"), onlineDevice("B")},
		props: map[string]string{
			"A/ro.product.model": "SM-G991B",
		},
		shellErr: map[string]bool{"B/ls": true},
	}
	rec := &fakeRecorder{}
	v := &Verifier{Bridge: bridge, History: rec}

	result, err := v.Run("")
	require.NoError(t, err)
	require.Len(t, result.Devices, 2)
	assert.True(t, result.Devices[0].Passed())
	assert.False(t, result.Devices[1].Passed())
	assert.True(t, result.Devices[1].NetworkOK)

	require.Len(t, rec.runs, 2)
	assert.Equal(t, "A", rec.runs[0].Serial)
	assert.Equal(t, "SM-G991B", rec.runs[0].Model)
	assert.True(t, rec.runs[0].Passed())
	assert.False(t, rec.runs[1].FilesystemOK)
	assert.False(t, rec.runs[1].CheckedAt.IsZero())
}

func TestRunRecorderFailureIsNonFatal(t *testing.T) {
	bridge := &fakeBridge{devices: []adb.Device{onlineDevice("A")}}
	rec := &fakeRecorder{err: fmt.Errorf("disk full")}
	v := &Verifier{Bridge: bridge, History: rec}

	result, err := v.Run("")
	require.NoError(t, err)
	require.Len(t, result.Devices, 1)
	assert.NotEmpty(t, result.Devices[0].Errors)
	assert.True(t, result.Devices[0].Passed())
}
