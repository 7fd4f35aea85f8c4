package masterpass

import (
	"errors"
	"net"
	"strings"
)

var ErrNoHardwareAddress = errors.New("no interface with a hardware address found")

// ResolveDeviceID returns the kiosk's device identifier. A non-empty
// override (from configuration) wins; otherwise the MAC of the first
// non-loopback interface that has one is used, in uppercase colon form.
func ResolveDeviceID(override string) (string, error) {
	if override != "" {
		return CanonicalDeviceID(override), nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return strings.ToUpper(iface.HardwareAddr.String()), nil
	}

	return "", ErrNoHardwareAddress
}
