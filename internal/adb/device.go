package adb

// ConnectionType indicates how a device is attached to the host.
type ConnectionType string

const (
	USB     ConnectionType = "usb"
	WiFi    ConnectionType = "wifi"
	Unknown ConnectionType = "unknown"
)

// UnknownProp is the placeholder for device properties that could not be read.
const UnknownProp = "Unknown"

// Device represents one row of `adb devices -l` output, optionally
// enriched with system properties queried via getprop.
type Device struct {
	Serial         string
	State          string // "device", "offline", "unauthorized", etc.
	ConnType       ConnectionType
	Model          string
	AndroidVersion string
	Manufacturer   string
}

// IsOnline returns true if the device is in "device" state (ready).
func (d Device) IsOnline() bool {
	return d.State == "device"
}
