package protocol

import "encoding/binary"

// NoErrorCode is the error-state code reported by a healthy unit.
const NoErrorCode = 0x8000

// ErrorState is the group 0x04 record. Payload layout:
//
//	[0-2]   unknown
//	[3-4]   error code, big-endian; 0x8000 means no fault
//	[5..]   unknown, preserved
type ErrorState struct {
	Unknown0 [3]byte
	CodeRaw  [2]byte
	Tail     []byte
}

func decodeError(p []byte) GroupRecord {
	s := &ErrorState{Tail: cloneBytes(p[5:])}
	copy(s.Unknown0[:], p[0:3])
	copy(s.CodeRaw[:], p[3:5])
	return s
}

func (s *ErrorState) GroupCode() byte { return GroupError }

func (s *ErrorState) EncodePayload() []byte {
	p := make([]byte, 5, 5+len(s.Tail))
	copy(p[0:3], s.Unknown0[:])
	copy(p[3:5], s.CodeRaw[:])
	return append(p, s.Tail...)
}

func (s *ErrorState) ErrorCode() uint16 { return binary.BigEndian.Uint16(s.CodeRaw[:]) }

// Abnormal reports whether the unit is in a fault state.
func (s *ErrorState) Abnormal() bool { return s.ErrorCode() != NoErrorCode }

// TimerState is the group 0x05 record. No field of the timer payload has
// been mapped yet; the whole payload is carried opaquely.
type TimerState struct {
	Payload []byte
}

func decodeTimer(p []byte) GroupRecord {
	return &TimerState{Payload: cloneBytes(p)}
}

func (s *TimerState) GroupCode() byte { return GroupTimer }

func (s *TimerState) EncodePayload() []byte { return cloneBytes(s.Payload) }

// EnergyState is the group 0x06 record. Payload layout:
//
//	[0-1]   unknown
//	[2]     compressor frequency
//	[3]     operating status (non-zero = compressor running)
//	[4-5]   power draw in watts, big-endian; outdoor unit is billed to the
//	        first indoor unit on the circuit
//	[6..]   unknown, preserved
type EnergyState struct {
	Unknown0      [2]byte
	CompressorRaw byte
	OperatingRaw  byte
	PowerRaw      [2]byte
	Tail          []byte
}

func decodeEnergy(p []byte) GroupRecord {
	s := &EnergyState{
		CompressorRaw: p[2],
		OperatingRaw:  p[3],
		Tail:          cloneBytes(p[6:]),
	}
	copy(s.Unknown0[:], p[0:2])
	copy(s.PowerRaw[:], p[4:6])
	return s
}

func (s *EnergyState) GroupCode() byte { return GroupEnergy }

func (s *EnergyState) EncodePayload() []byte {
	p := make([]byte, 6, 6+len(s.Tail))
	copy(p[0:2], s.Unknown0[:])
	p[2] = s.CompressorRaw
	p[3] = s.OperatingRaw
	copy(p[4:6], s.PowerRaw[:])
	return append(p, s.Tail...)
}

func (s *EnergyState) CompressorFrequency() int { return int(s.CompressorRaw) }

func (s *EnergyState) Operating() bool { return s.OperatingRaw != 0 }

func (s *EnergyState) PowerWatts() uint16 { return binary.BigEndian.Uint16(s.PowerRaw[:]) }

// AutoModeState is the group 0x09 record. Payload layout:
//
//	[0-2]   unknown
//	[3]     demand stage: 0 when off, 1 when idling, up to 6 under load
//	[4..]   unknown, preserved
type AutoModeState struct {
	Unknown0 [3]byte
	StageRaw byte
	Tail     []byte
}

func decodeAutoMode(p []byte) GroupRecord {
	s := &AutoModeState{StageRaw: p[3], Tail: cloneBytes(p[4:])}
	copy(s.Unknown0[:], p[0:3])
	return s
}

func (s *AutoModeState) GroupCode() byte { return GroupAutoMode }

func (s *AutoModeState) EncodePayload() []byte {
	p := make([]byte, 4, 4+len(s.Tail))
	copy(p[0:3], s.Unknown0[:])
	p[3] = s.StageRaw
	return append(p, s.Tail...)
}

// Stage returns the demand stage reported in the auto-mode group.
func (s *AutoModeState) Stage() int { return int(s.StageRaw) }
