package protocol

// Control command constructors. These build the write frames (transfer mode
// 0x41) the device accepts; the byte positions come from captures of the
// vendor app and are covered by golden-vector tests.
//
// Command payloads are always 15 bytes (frame bytes 6..20), zero-filled
// where no segment is documented.

const commandPayloadLen = 15

// GeneralControl selects which fields of a general control command the
// device should apply. Unselected fields are still present in the frame but
// ignored by the unit.
type GeneralControl struct {
	Power          bool
	Mode           bool
	Temperature    bool
	FanSpeed       bool
	VerticalVane   bool
	HorizontalVane bool
	RemoteLock     bool
}

// RemoteLock restricts what the infrared remote may change.
type RemoteLock byte

const (
	RemoteLockNone  RemoteLock = 0x00
	RemoteLockPower RemoteLock = 0x01
)

// Extend08Control selects which extended settings an extend08 command
// applies.
type Extend08Control struct {
	Dehumidifier bool
	PowerSaving  bool
	Buzzer       bool
	WindBreak    bool
}

// RemoteTemperatureMode selects the thermostat source for the remote
// temperature command.
type RemoteTemperatureMode byte

const (
	// UseInternalTemperature tells the unit to trust its own sensor.
	UseInternalTemperature RemoteTemperatureMode = 0x00
	// UseRemoteTemperature feeds the unit an external reading.
	UseRemoteTemperature RemoteTemperatureMode = 0x01
)

// BuildGeneralControl builds a group 0x01 write frame from the desired state.
//
// Payload segments (relative to frame byte 6):
//
//	[0]   control flags: 0x01 power, 0x02 mode, 0x04 temperature,
//	      0x08 fan, 0x10 vertical vane, 0x40 remote lock
//	[1]   control flags 2: 0x01 horizontal vane, 0x02 outside control
//	[2]   power
//	[3]   mode
//	[4]   target temperature, segment form (saturates at the 16-31 rail)
//	[5]   fan speed
//	[6]   vertical vane
//	[10]  remote lock value
//	[12]  horizontal vane
//	[13]  target temperature, half-degree form (unclamped)
//	[14]  0x41 check-inside marker
func BuildGeneralControl(state *GeneralState, set GeneralControl, lock RemoteLock) ([]byte, error) {
	p := make([]byte, commandPayloadLen)

	if set.Power {
		p[0] |= 0x01
	}
	if set.Mode {
		p[0] |= 0x02
	}
	if set.Temperature {
		p[0] |= 0x04
	}
	if set.FanSpeed {
		p[0] |= 0x08
	}
	if set.VerticalVane {
		p[0] |= 0x10
	}
	if set.RemoteLock {
		p[0] |= 0x40
	}
	p[1] = 0x02 // outside control, always requested
	if set.HorizontalVane {
		p[1] |= 0x01
	}

	// Value segments are only populated for selected controls; the vendor
	// app leaves the rest zero and the unit ignores them.
	if set.Power {
		p[2] = byte(state.Power())
	}
	if set.Mode {
		p[3] = byte(state.Mode())
	}
	if set.FanSpeed {
		p[5] = byte(state.FanSpeed())
	}
	if set.VerticalVane {
		p[6] = byte(state.VerticalVane())
	}
	if set.RemoteLock {
		p[10] = byte(lock)
	}
	if set.HorizontalVane {
		p[12] = byte(state.HorizontalVane())
	}
	p[14] = 0x41

	target := state.TargetTemperature()
	// The segment byte cannot express values beyond the settable range, so
	// it saturates; the half-degree byte carries the caller's actual value.
	p[4], _ = TargetScale.Encode(clampTarget(target))
	fine, err := HalfDegScale.Encode(target)
	if err != nil {
		return nil, err
	}
	p[13] = fine

	return encodeCommand(GroupGeneralSet, p), nil
}

// BuildExtend08 builds a group 0x08 write frame for buzzer, dehumidifier,
// power saving and wind-break settings.
//
// Payload segments: [0] flags (0x04 dehum, 0x08 power saving, 0x10 buzzer,
// 0x20 wind break), [3] dehum level, [4] 0x0a when power saving, [5] wind
// break value, [6] buzzer.
func BuildExtend08(state *GeneralState, set Extend08Control) []byte {
	p := make([]byte, commandPayloadLen)

	if set.Dehumidifier {
		p[0] |= 0x04
		p[3] = state.DehumRaw
	}
	if set.PowerSaving {
		p[0] |= 0x08
	}
	if set.Buzzer {
		p[0] |= 0x10
		p[6] = 0x01
	}
	if set.WindBreak {
		p[0] |= 0x20
		p[5] = state.WindBreakRaw
	}
	if state.PowerSaving() {
		p[4] = 0x0a
	}

	return encodeCommand(GroupExtend08, p)
}

// BuildRemoteTemperature builds a group 0x07 write frame feeding the unit an
// external thermostat reading, or switching it back to its internal sensor.
//
// Payload segments: [0] mode flag, [1] coarse reading (segment form,
// saturated), [2] half-degree reading.
func BuildRemoteTemperature(mode RemoteTemperatureMode, celsius float64) ([]byte, error) {
	p := make([]byte, commandPayloadLen)

	p[0] = byte(mode)
	p[1], _ = TargetScale.Encode(clampTarget(celsius))
	fine, err := HalfDegScale.Encode(celsius)
	if err != nil {
		return nil, err
	}
	p[2] = fine

	return encodeCommand(GroupRemoteTemp, p), nil
}

func encodeCommand(group byte, payload []byte) []byte {
	raw := make([]byte, 0, 6+len(payload)+1)
	raw = append(raw, FrameMagic, TransferWrite)
	raw = append(raw, DefaultStaticPrefix[:]...)
	raw = append(raw, group)
	raw = append(raw, payload...)
	return append(raw, Checksum(raw[1:]))
}

func clampTarget(c float64) float64 {
	if c < 16 {
		return 16
	}
	if c > 31.5 {
		return 31.5
	}
	return c
}
