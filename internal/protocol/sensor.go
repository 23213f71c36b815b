package protocol

import (
	"encoding/binary"
	"time"
)

// SensorState is the group 0x03 record. Payload layout (relative to frame
// byte 6):
//
//	[0-1]   unknown
//	[2]     room temperature, coarse (°C - 10)
//	[3]     unknown
//	[4]     outside temperature, half-degree form; below 0x10 means no sensor
//	[5]     room temperature, half-degree form
//	[6]     room temperature, leading value (moves ahead of [2]/[5])
//	[7-8]   unknown
//	[9-12]  runtime in minutes, big-endian
//	[13..]  unknown, preserved
//
// Bytes 2, 5 and 6 track the same quantity through different conversions;
// byte 6 is the one the vendor app displays.
type SensorState struct {
	Unknown0      [2]byte
	RoomCoarseRaw byte
	Unknown3      byte
	OutsideRaw    byte
	RoomFineRaw   byte
	RoomRaw       byte
	Unknown7      [2]byte
	RuntimeRaw    [4]byte
	Tail          []byte
}

func decodeSensor(p []byte) GroupRecord {
	s := &SensorState{
		RoomCoarseRaw: p[2],
		Unknown3:      p[3],
		OutsideRaw:    p[4],
		RoomFineRaw:   p[5],
		RoomRaw:       p[6],
		Tail:          cloneBytes(p[13:]),
	}
	copy(s.Unknown0[:], p[0:2])
	copy(s.Unknown7[:], p[7:9])
	copy(s.RuntimeRaw[:], p[9:13])
	return s
}

func (s *SensorState) GroupCode() byte { return GroupSensor }

func (s *SensorState) EncodePayload() []byte {
	p := make([]byte, 13, 13+len(s.Tail))
	copy(p[0:2], s.Unknown0[:])
	p[2] = s.RoomCoarseRaw
	p[3] = s.Unknown3
	p[4] = s.OutsideRaw
	p[5] = s.RoomFineRaw
	p[6] = s.RoomRaw
	copy(p[7:9], s.Unknown7[:])
	copy(p[9:13], s.RuntimeRaw[:])
	return append(p, s.Tail...)
}

// RoomTemperature returns the room temperature in °C, clamped to the sensor
// reporting range.
func (s *SensorState) RoomTemperature() float64 { return SensorScale.Decode(s.RoomRaw) }

// RoomTemperatureFine returns the unclamped half-degree reading from byte 5.
func (s *SensorState) RoomTemperatureFine() float64 { return HalfDegScale.Decode(s.RoomFineRaw) }

// RoomTemperatureCoarse returns the whole-degree reading from byte 2.
func (s *SensorState) RoomTemperatureCoarse() float64 { return OffsetScale.Decode(s.RoomCoarseRaw) }

// OutsideTemperature returns the outdoor reading in °C. ok is false when the
// unit has no outdoor sensor (raw below 0x10).
func (s *SensorState) OutsideTemperature() (celsius float64, ok bool) {
	if s.OutsideRaw < 0x10 {
		return 0, false
	}
	return SensorScale.Decode(s.OutsideRaw), true
}

// RuntimeMinutes returns the unit's accumulated runtime counter.
func (s *SensorState) RuntimeMinutes() uint32 {
	return binary.BigEndian.Uint32(s.RuntimeRaw[:])
}

// Runtime returns the runtime counter as a duration.
func (s *SensorState) Runtime() time.Duration {
	return time.Duration(s.RuntimeMinutes()) * time.Minute
}
