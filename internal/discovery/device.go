package discovery

import (
	"fmt"
	"time"

	"github.com/muurk/ledpanel/internal/config"
)

// Device represents a resolved LED device on the network
type Device struct {
	// Instance is the mDNS instance name (e.g., "esp32-led")
	Instance string

	// Hostname is the mDNS hostname (e.g., "esp32-led.local.")
	Hostname string

	// IP is the device address, IPv4 when one is advertised
	IP string

	// Port is the command port
	Port int

	// Metadata contains the mDNS TXT record data (e.g., "transport=ws")
	Metadata map[string]string

	// ResolvedAt is when the device answered
	ResolvedAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("LED device %s (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// Endpoint returns the device as a config endpoint
func (d *Device) Endpoint() config.Endpoint {
	return config.Endpoint{Host: d.IP, Port: d.Port, Instance: d.Instance}
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
