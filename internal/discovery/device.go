package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered Wi-Fi adapter on the network
type Device struct {
	// Serial is the adapter serial number (e.g., "2417P00001")
	Serial string

	// Hostname is the mDNS hostname (e.g., "MAC-2417P00001.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.100")
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// MAC is the adapter MAC address (populated from a status call, not mDNS)
	MAC string

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Adapter %s (%s) at %s:%d", d.Serial, d.Hostname, d.IP, d.Port)
}

// HostAddr returns the host:port address for the transport client
func (d *Device) HostAddr() string {
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
