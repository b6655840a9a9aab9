package verify

import (
	"fmt"
	"time"

	"github.com/droidlab/droidprep/internal/adb"
	"github.com/droidlab/droidprep/internal/config"
	"github.com/droidlab/droidprep/internal/history"
)

// Bridge is the slice of the ADB client the verifier drives.
type Bridge interface {
	Devices() ([]adb.Device, error)
	Connect(ip string, port int) error
	Getprop(serial, prop string) (string, error)
	Shell(serial string, args ...string) error
}

// Recorder persists verification outcomes. A nil Recorder disables recording.
type Recorder interface {
	RecordRun(history.Run) error
}

// Verifier checks that attached devices are reachable and usable.
type Verifier struct {
	Bridge  Bridge
	History Recorder
	TCPPort int
}

// DeviceReport is the verification outcome for a single device.
type DeviceReport struct {
	Device       adb.Device
	NetworkOK    bool
	FilesystemOK bool
	Errors       []string
}

// Passed returns true if both connectivity probes succeeded.
func (r DeviceReport) Passed() bool {
	return r.NetworkOK && r.FilesystemOK
}

// Result summarizes one verification run across all devices.
type Result struct {
	ConnectAddr string // set when an IP connect was attempted
	ConnectOK   bool
	Devices     []DeviceReport
	Errors      []string
}

// Run optionally connects to a device by IP, then enumerates, describes and
// smoke-tests every online device. External failures degrade to empty
// results and messages in Result.Errors; err is reserved for unexpected
// conditions and is nil in all the degradation paths.
func (v *Verifier) Run(deviceIP string) (Result, error) {
	var result Result

	if deviceIP != "" {
		port := v.TCPPort
		if port == 0 {
			port = config.DefaultTCPPort
		}
		result.ConnectAddr = fmt.Sprintf("%s:%d", deviceIP, port)
		if err := v.Bridge.Connect(deviceIP, port); err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result, nil
		}
		result.ConnectOK = true
	}

	devices, err := v.ListDevices()
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}

	for _, d := range devices {
		report := DeviceReport{Device: d}
		report.NetworkOK, report.FilesystemOK, report.Errors = v.probe(d.Serial)

		if v.History != nil {
			run := history.Run{
				Serial:         d.Serial,
				Model:          d.Model,
				AndroidVersion: d.AndroidVersion,
				Manufacturer:   d.Manufacturer,
				NetworkOK:      report.NetworkOK,
				FilesystemOK:   report.FilesystemOK,
				CheckedAt:      time.Now(),
			}
			if err := v.History.RecordRun(run); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("record history: %v", err))
			}
		}
		result.Devices = append(result.Devices, report)
	}
	return result, nil
}

// ListDevices returns all online devices with model, Android version and
// manufacturer filled in. Offline and unauthorized devices are skipped;
// property reads that fail fall back to "Unknown" per field.
func (v *Verifier) ListDevices() ([]adb.Device, error) {
	devices, err := v.Bridge.Devices()
	if err != nil {
		return nil, err
	}
	var online []adb.Device
	for _, d := range devices {
		if !d.IsOnline() {
			continue
		}
		online = append(online, v.describe(d))
	}
	return online, nil
}

// TestConnection runs the two connectivity probes on a device and reports
// whether both passed.
func (v *Verifier) TestConnection(d adb.Device) bool {
	netOK, fsOK, _ := v.probe(d.Serial)
	return netOK && fsOK
}

// probe runs a loopback ping and a scratch-directory listing on the device.
// Each probe is judged solely by the exit status of the adb call.
func (v *Verifier) probe(serial string) (netOK, fsOK bool, errs []string) {
	if err := v.Bridge.Shell(serial, "ping", "-c", "1", "127.0.0.1"); err != nil {
		errs = append(errs, fmt.Sprintf("network probe: %v", err))
	} else {
		netOK = true
	}
	if err := v.Bridge.Shell(serial, "ls", "/data/local/tmp"); err != nil {
		errs = append(errs, fmt.Sprintf("filesystem probe: %v", err))
	} else {
		fsOK = true
	}
	return netOK, fsOK, errs
}

// describe fills in the identifying properties of an online device.
func (v *Verifier) describe(d adb.Device) adb.Device {
	d.Model = v.prop(d.Serial, "ro.product.model")
	d.AndroidVersion = v.prop(d.Serial, "ro.build.version.release")
	d.Manufacturer = v.prop(d.Serial, "ro.product.manufacturer")
	return d
}

func (v *Verifier) prop(serial, name string) string {
	val, err := v.Bridge.Getprop(serial, name)
	if err != nil || val == "" {
		return adb.UnknownProp
	}
	return val
}
