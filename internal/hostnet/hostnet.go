package hostnet

import (
	"fmt"
	"net"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// ADBServerPort is the port the host ADB server listens on.
const ADBServerPort = 5037

// PortListening reports whether something accepts TCP connections on the
// given localhost port.
func PortListening(port int) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Interface is a host network interface with its assigned addresses.
type Interface struct {
	Name  string
	Addrs []string
}

// Interfaces returns non-loopback host interfaces that have at least one
// address, so the user can spot the IP a device would connect back to.
func Interfaces() ([]Interface, error) {
	stats, err := psnet.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	var out []Interface
	for _, st := range stats {
		if isLoopback(st) || len(st.Addrs) == 0 {
			continue
		}
		iface := Interface{Name: st.Name}
		for _, a := range st.Addrs {
			iface.Addrs = append(iface.Addrs, a.Addr)
		}
		out = append(out, iface)
	}
	return out, nil
}

func isLoopback(st psnet.InterfaceStat) bool {
	for _, f := range st.Flags {
		if strings.EqualFold(f, "loopback") {
			return true
		}
	}
	return false
}
