// Package config provides user configuration management for the melair tools.
//
// This package manages a YAML-based configuration file that stores user-defined
// metadata for known adapters, including nicknames, addresses, encryption keys,
// and application preferences. The configuration follows OS-specific conventions
// for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/melair/config.yaml or $HOME/.config/melair/config.yaml
//   - macOS: $HOME/.config/melair/config.yaml
//   - Windows: %LOCALAPPDATA%\melair\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores admin interface passwords. These are
// always prompted from the user when needed. The adapter payload encryption
// key is stored, since the device requires it on every request.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Add or update adapter metadata
//	registry.SetDeviceNickname("2417P00001", "Living Room")
//	registry.SetDeviceKey("2417P00001", "unregistered")
//	registry.UpdateDeviceLastSeen("2417P00001", "192.168.1.100:80")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
