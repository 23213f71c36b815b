package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "melair"
	if !strings.Contains(configDir, "melair") {
		t.Errorf("GetConfigDir() = %v, should contain 'melair'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}

	if reg.Preferences == nil {
		t.Error("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.AutoDiscover != true {
		t.Error("NewRegistry().Preferences.AutoDiscover should be true by default")
	}

	if reg.Preferences.DiscoverTimeout != 10 {
		t.Errorf("NewRegistry().Preferences.DiscoverTimeout = %v, want 10", reg.Preferences.DiscoverTimeout)
	}

	if reg.Preferences.PollInterval != 5 {
		t.Errorf("NewRegistry().Preferences.PollInterval = %v, want 5", reg.Preferences.PollInterval)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	// First call should create device
	device1 := reg.EnsureDevice("2417P00001")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	// Second call should return same device
	device2 := reg.EnsureDevice("2417P00001")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same serial")
	}

	// Different serial should create new device
	device3 := reg.EnsureDevice("2417P99999")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different serial")
	}
}

func TestRegistryUpdateDeviceLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateDeviceLastSeen("2417P00001", "192.168.1.100:80")
	after := time.Now()

	device := reg.GetDevice("2417P00001")
	if device == nil {
		t.Fatal("Device should exist after UpdateDeviceLastSeen()")
	}

	if device.Host != "192.168.1.100:80" {
		t.Errorf("Host = %v, want 192.168.1.100:80", device.Host)
	}

	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}
}

func TestRegistrySetDeviceNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceNickname("2417P00001", "Living Room")

	device := reg.GetDevice("2417P00001")
	if device == nil {
		t.Fatal("Device should exist after SetDeviceNickname()")
	}

	if device.Nickname != "Living Room" {
		t.Errorf("Nickname = %v, want 'Living Room'", device.Nickname)
	}
}

func TestRegistrySetDeviceKey(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceKey("2417P00001", "unregistered")

	device := reg.GetDevice("2417P00001")
	if device == nil {
		t.Fatal("Device should exist after SetDeviceKey()")
	}

	if device.EncryptionKey != "unregistered" {
		t.Errorf("EncryptionKey = %v, want 'unregistered'", device.EncryptionKey)
	}
}

func TestRegistryFindByNickname(t *testing.T) {
	reg := NewRegistry()
	reg.SetDeviceNickname("2417P00001", "Living Room")
	reg.SetDeviceNickname("2417P99999", "Bedroom")

	serial, device := reg.FindByNickname("Bedroom")
	if serial != "2417P99999" || device == nil {
		t.Errorf("FindByNickname('Bedroom') = %v, %v", serial, device)
	}

	serial, device = reg.FindByNickname("Garage")
	if serial != "" || device != nil {
		t.Errorf("FindByNickname('Garage') = %v, %v, want empty", serial, device)
	}
}

func TestRegistryYAMLRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.SetDeviceNickname("2417P00001", "Living Room")
	reg.SetDeviceKey("2417P00001", "unregistered")
	reg.UpdateDeviceLastSeen("2417P00001", "192.168.1.100:80")

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var loaded Registry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("loaded.Version = %v, want 1", loaded.Version)
	}

	device := loaded.GetDevice("2417P00001")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}
	if device.Nickname != "Living Room" {
		t.Errorf("loaded nickname = %v, want 'Living Room'", device.Nickname)
	}
	if device.EncryptionKey != "unregistered" {
		t.Errorf("loaded key = %v, want 'unregistered'", device.EncryptionKey)
	}
	if device.Host != "192.168.1.100:80" {
		t.Errorf("loaded host = %v, want 192.168.1.100:80", device.Host)
	}
}

func TestRegistryParsesHandEditedYAML(t *testing.T) {
	data := []byte(`version: 1
devices:
  "2417P00001":
    nickname: "Living Room"
    host: "192.168.1.100"
    encryption_key: "unregistered"
preferences:
  auto_discover: true
  discover_timeout: 10
  request_timeout: 10
  poll_interval: 5
  default_auth:
    username: "admin"
`)

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	device := reg.GetDevice("2417P00001")
	if device == nil {
		t.Fatal("Device should exist")
	}
	if device.Host != "192.168.1.100" {
		t.Errorf("Host = %v, want 192.168.1.100", device.Host)
	}
	if reg.Preferences.DefaultAuth.Username != "admin" {
		t.Errorf("Username = %v, want admin", reg.Preferences.DefaultAuth.Username)
	}
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("2417P00001")
	}
}
