package controller

import (
	"sync"

	"github.com/kazehome/melair/internal/protocol"
	"github.com/kazehome/melair/internal/transport"
)

// DeviceStateSnapshot holds the last successfully decoded record of each
// state group. Absence of a group means it has not been observed yet, not
// that the unit lacks it. Only successful decodes mutate the snapshot, so a
// corrupt response never clobbers known-good state.
type DeviceStateSnapshot struct {
	mu         sync.RWMutex
	records    map[byte]protocol.GroupRecord
	generation uint64

	mac         string
	serial      string
	rssi        string
	appVersion  string
	profileCode string
}

func newSnapshot() *DeviceStateSnapshot {
	return &DeviceStateSnapshot{records: make(map[byte]protocol.GroupRecord)}
}

// ingest decodes every frame of a status response into the snapshot.
// Frames that fail validation are skipped; the rest still apply.
func (s *DeviceStateSnapshot) ingest(status *transport.DeviceStatus) (applied int, errs []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, raw := range status.Frames {
		frame, err := protocol.DecodeFrame(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.records[frame.GroupCode()] = frame.Record
		applied++
	}
	if applied > 0 {
		s.generation++
	}
	if status.MAC != "" {
		s.mac = status.MAC
	}
	if status.Serial != "" {
		s.serial = status.Serial
	}
	if status.RSSI != "" {
		s.rssi = status.RSSI
	}
	if status.AppVersion != "" {
		s.appVersion = status.AppVersion
	}
	if status.ProfileCode != "" {
		s.profileCode = status.ProfileCode
	}
	return applied, errs
}

// Generation counts successful ingests. A UI can compare generations to
// know whether anything changed underneath it.
func (s *DeviceStateSnapshot) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Identity returns the adapter identity fields from the latest response.
func (s *DeviceStateSnapshot) Identity() (mac, serial, rssi, appVersion string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mac, s.serial, s.rssi, s.appVersion
}

// General returns a copy of the last general state, if one was observed.
func (s *DeviceStateSnapshot) General() (protocol.GeneralState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[protocol.GroupGeneral].(*protocol.GeneralState); ok {
		return *rec, true
	}
	return protocol.GeneralState{}, false
}

// Sensor returns a copy of the last sensor state, if one was observed.
func (s *DeviceStateSnapshot) Sensor() (protocol.SensorState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[protocol.GroupSensor].(*protocol.SensorState); ok {
		return *rec, true
	}
	return protocol.SensorState{}, false
}

// Error returns a copy of the last error state, if one was observed.
func (s *DeviceStateSnapshot) Error() (protocol.ErrorState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[protocol.GroupError].(*protocol.ErrorState); ok {
		return *rec, true
	}
	return protocol.ErrorState{}, false
}

// Energy returns a copy of the last energy state, if one was observed.
func (s *DeviceStateSnapshot) Energy() (protocol.EnergyState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[protocol.GroupEnergy].(*protocol.EnergyState); ok {
		return *rec, true
	}
	return protocol.EnergyState{}, false
}

// AutoMode returns a copy of the last auto-mode state, if one was observed.
func (s *DeviceStateSnapshot) AutoMode() (protocol.AutoModeState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[protocol.GroupAutoMode].(*protocol.AutoModeState); ok {
		return *rec, true
	}
	return protocol.AutoModeState{}, false
}
