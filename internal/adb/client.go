package adb

import (
	"bufio"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// runCmd executes an external command and returns its combined output.
// Swapped out in tests so no real adb binary is needed.
type runCmd func(name string, args ...string) ([]byte, error)

// Client wraps ADB command-line calls.
type Client struct {
	run runCmd
}

// NewClient creates a new ADB client that shells out to `adb` on PATH.
func NewClient() *Client {
	return &Client{
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// Devices returns all attached ADB devices, online or not.
func (c *Client) Devices() ([]Device, error) {
	out, err := c.run("adb", "devices", "-l")
	if err != nil {
		return nil, fmt.Errorf("adb devices: %w\n%s", err, out)
	}
	return parseDeviceList(string(out)), nil
}

// Connect connects to a device over TCP/IP. adb exits zero even when the
// connection is refused, so success is judged from the output text: both
// "connected to" and "already connected to" count, "unable to connect"
// and "failed to connect" do not.
func (c *Client) Connect(ip string, port int) error {
	addr := fmt.Sprintf("%s:%d", ip, port)
	out, err := c.run("adb", "connect", addr)
	if err != nil {
		return fmt.Errorf("adb connect %s: %w\n%s", addr, err, out)
	}
	if strings.Contains(strings.ToLower(string(out)), "connected") {
		return nil
	}
	return fmt.Errorf("adb connect %s: %s", addr, strings.TrimSpace(string(out)))
}

// Getprop reads a single system property from a device.
func (c *Client) Getprop(serial, prop string) (string, error) {
	out, err := c.run("adb", "-s", serial, "shell", "getprop", prop)
	if err != nil {
		return "", fmt.Errorf("adb getprop %s %s: %w\n%s", serial, prop, err, out)
	}
	return strings.TrimSpace(string(out)), nil
}

// Shell runs a shell command on a device, discarding output. A non-zero
// exit from the device-side command surfaces as an error here.
func (c *Client) Shell(serial string, args ...string) error {
	cmdArgs := append([]string{"-s", serial, "shell"}, args...)
	out, err := c.run("adb", cmdArgs...)
	if err != nil {
		return fmt.Errorf("adb shell %s: %w\n%s", strings.Join(args, " "), err, out)
	}
	return nil
}

// KillServer stops the host ADB server.
func (c *Client) KillServer() error {
	out, err := c.run("adb", "kill-server")
	if err != nil {
		return fmt.Errorf("adb kill-server: %w\n%s", err, out)
	}
	return nil
}

// StartServer starts the host ADB server.
func (c *Client) StartServer() error {
	out, err := c.run("adb", "start-server")
	if err != nil {
		return fmt.Errorf("adb start-server: %w\n%s", err, out)
	}
	return nil
}

// RestartServer kills and restarts the host ADB server, pausing briefly
// so the old server has released its port before the new one binds.
func (c *Client) RestartServer() error {
	if err := c.KillServer(); err != nil {
		return err
	}
	time.Sleep(time.Second)
	return c.StartServer()
}

// TCPIP switches all attached devices to TCP/IP debugging on the given port.
func (c *Client) TCPIP(port int) error {
	out, err := c.run("adb", "tcpip", strconv.Itoa(port))
	if err != nil {
		return fmt.Errorf("adb tcpip %d: %w\n%s", port, err, out)
	}
	return nil
}

// Version returns the ADB version banner, used as a server liveness check.
func (c *Client) Version() (string, error) {
	out, err := c.run("adb", "version")
	if err != nil {
		return "", fmt.Errorf("adb version: %w\n%s", err, out)
	}
	return parseVersionBanner(string(out)), nil
}

// parseDeviceList parses `adb devices -l` output. The header line and
// blank lines are skipped; anything with fewer than two fields is ignored.
// The state check is an exact match on the second field, so a serial that
// happens to contain "device" is not misread as online.
func parseDeviceList(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "List of") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{
			Serial: fields[0],
			State:  fields[1],
		}
		// TCP/IP devices show up as ip:port serials
		if strings.Contains(d.Serial, ":") {
			d.ConnType = WiFi
		} else {
			d.ConnType = USB
		}
		for _, f := range fields[2:] {
			parts := strings.SplitN(f, ":", 2)
			if len(parts) != 2 {
				continue
			}
			if parts[0] == "model" {
				d.Model = parts[1]
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// parseVersionBanner returns the first non-empty line of `adb version` output.
func parseVersionBanner(output string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line
		}
	}
	return ""
}
