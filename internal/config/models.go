package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for adapters and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by adapter serial number
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single adapter.
// This is keyed by the adapter's serial number in the Registry.
type Device struct {
	Nickname      string    `yaml:"nickname,omitempty"`       // User-friendly name (e.g., "Living Room")
	Host          string    `yaml:"host,omitempty"`           // Last known address, host or host:port
	EncryptionKey string    `yaml:"encryption_key,omitempty"` // Adapter payload key ("unregistered" when never paired)
	LastSeen      time.Time `yaml:"last_seen,omitempty"`      // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool       `yaml:"auto_discover"`          // Enable automatic mDNS discovery on startup
	DiscoverTimeout int        `yaml:"discover_timeout"`       // mDNS discovery timeout in seconds
	RequestTimeout  int        `yaml:"request_timeout"`        // HTTP request timeout in seconds
	PollInterval    int        `yaml:"poll_interval"`          // Monitor refresh interval in seconds
	DefaultAuth     *AuthPrefs `yaml:"default_auth,omitempty"` // Default admin interface preferences
}

// AuthPrefs represents default admin interface authentication preferences.
// Note: Passwords are NEVER stored - they are always prompted from the user.
type AuthPrefs struct {
	Username string `yaml:"username"` // Default username (e.g., "admin")
	// Password is NEVER stored in config file for security reasons
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			RequestTimeout:  10,
			PollInterval:    5,
			DefaultAuth: &AuthPrefs{
				Username: "admin",
			},
		},
	}
}

// GetDevice retrieves adapter metadata by serial number.
// Returns nil if the adapter doesn't exist in the registry.
func (r *Registry) GetDevice(serial string) *Device {
	return r.Devices[serial]
}

// FindByNickname retrieves adapter metadata by nickname.
// Returns the serial and entry, or empty values when no nickname matches.
func (r *Registry) FindByNickname(nickname string) (string, *Device) {
	for serial, device := range r.Devices {
		if device.Nickname == nickname {
			return serial, device
		}
	}
	return "", nil
}

// EnsureDevice ensures an adapter entry exists in the registry.
// If the adapter doesn't exist, creates a new entry with default values.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureDevice(serial string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[serial]; exists {
		return device
	}

	// Create new adapter entry
	device := &Device{}
	r.Devices[serial] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and address for an adapter.
func (r *Registry) UpdateDeviceLastSeen(serial, host string) {
	device := r.EnsureDevice(serial)
	device.LastSeen = time.Now()
	device.Host = host
}

// SetDeviceNickname sets a user-friendly nickname for an adapter.
func (r *Registry) SetDeviceNickname(serial, nickname string) {
	device := r.EnsureDevice(serial)
	device.Nickname = nickname
}

// SetDeviceKey records the payload encryption key for an adapter.
func (r *Registry) SetDeviceKey(serial, key string) {
	device := r.EnsureDevice(serial)
	device.EncryptionKey = key
}
