package protocol

// GeneralState is the group 0x02 record: power, mode, setpoint, fan and vane
// positions. Documented payload layout (offsets relative to frame byte 6):
//
//	[0-1]   unknown
//	[2]     power
//	[3]     mode (+ i-See flag, see driveModeFromRaw)
//	[4]     target temperature, segment form
//	[5]     fan speed
//	[6]     vertical vane
//	[7-8]   unknown
//	[9]     horizontal vane (low nibble) + wide-vane-adjust flag (high nibble)
//	[10]    target temperature, half-degree form (0x00 = not reported)
//	[11]    dehumidifier level
//	[12]    power saving (non-zero = on)
//	[13]    wind-and-wind-break direct setting
//	[14..]  unknown, preserved
type GeneralState struct {
	Unknown0      [2]byte
	PowerRaw      byte
	ModeRaw       byte
	TargetRaw     byte
	FanRaw        byte
	VaneRaw       byte
	Unknown7      [2]byte
	WideVaneRaw   byte
	TargetFineRaw byte
	DehumRaw      byte
	PowerSaveRaw  byte
	WindBreakRaw  byte
	Tail          []byte
}

func decodeGeneral(p []byte) GroupRecord {
	s := &GeneralState{
		PowerRaw:      p[2],
		ModeRaw:       p[3],
		TargetRaw:     p[4],
		FanRaw:        p[5],
		VaneRaw:       p[6],
		WideVaneRaw:   p[9],
		TargetFineRaw: p[10],
		DehumRaw:      p[11],
		PowerSaveRaw:  p[12],
		WindBreakRaw:  p[13],
		Tail:          cloneBytes(p[14:]),
	}
	copy(s.Unknown0[:], p[0:2])
	copy(s.Unknown7[:], p[7:9])
	return s
}

func (s *GeneralState) GroupCode() byte { return GroupGeneral }

func (s *GeneralState) EncodePayload() []byte {
	p := make([]byte, 14, 14+len(s.Tail))
	copy(p[0:2], s.Unknown0[:])
	p[2] = s.PowerRaw
	p[3] = s.ModeRaw
	p[4] = s.TargetRaw
	p[5] = s.FanRaw
	p[6] = s.VaneRaw
	copy(p[7:9], s.Unknown7[:])
	p[9] = s.WideVaneRaw
	p[10] = s.TargetFineRaw
	p[11] = s.DehumRaw
	p[12] = s.PowerSaveRaw
	p[13] = s.WindBreakRaw
	return append(p, s.Tail...)
}

// Power reports the on/off state (raw 0x02, "on by timer", reads as on).
func (s *GeneralState) Power() Power { return powerFromRaw(s.PowerRaw) }

// Mode reports the drive mode with the i-See sensor bit stripped.
func (s *GeneralState) Mode() DriveMode {
	m, _ := driveModeFromRaw(s.ModeRaw)
	return m
}

// ISeeActive reports the i-See sensor flag carried in the mode byte.
func (s *GeneralState) ISeeActive() bool {
	_, iSee := driveModeFromRaw(s.ModeRaw)
	return iSee
}

// TargetTemperature returns the setpoint in °C. The half-degree byte wins
// when present; older units only report the segment form.
func (s *GeneralState) TargetTemperature() float64 {
	if s.TargetFineRaw != 0 {
		return HalfDegScale.Decode(s.TargetFineRaw)
	}
	return TargetScale.Decode(s.TargetRaw)
}

func (s *GeneralState) FanSpeed() WindSpeed { return windSpeedFromRaw(s.FanRaw) }

func (s *GeneralState) VerticalVane() VerticalVane { return verticalVaneFromRaw(s.VaneRaw) }

func (s *GeneralState) HorizontalVane() HorizontalVane { return horizontalVaneFromRaw(s.WideVaneRaw) }

// WideVaneAdjust reports the adjustment flag in the horizontal vane byte.
func (s *GeneralState) WideVaneAdjust() bool { return wideVaneAdjustFromRaw(s.WideVaneRaw) }

// Dehumidifier returns the dehumidifier level (0-100).
func (s *GeneralState) Dehumidifier() int { return int(s.DehumRaw) }

func (s *GeneralState) PowerSaving() bool { return s.PowerSaveRaw > 0 }

// SetTargetTemperature updates both setpoint bytes. The caller's value must
// be inside the settable range; nothing is clamped here.
func (s *GeneralState) SetTargetTemperature(celsius float64) error {
	seg, err := TargetScale.Encode(celsius)
	if err != nil {
		return err
	}
	fine, err := HalfDegScale.Encode(celsius)
	if err != nil {
		return err
	}
	s.TargetRaw = seg
	s.TargetFineRaw = fine
	return nil
}

func (s *GeneralState) SetPower(p Power) { s.PowerRaw = byte(p) }

func (s *GeneralState) SetMode(m DriveMode) { s.ModeRaw = byte(m) }

func (s *GeneralState) SetFanSpeed(w WindSpeed) { s.FanRaw = byte(w) }

func (s *GeneralState) SetVerticalVane(v VerticalVane) { s.VaneRaw = byte(v) }

// SetHorizontalVane replaces the position nibble and keeps the adjust flag.
func (s *GeneralState) SetHorizontalVane(h HorizontalVane) {
	s.WideVaneRaw = s.WideVaneRaw&0xf0 | byte(h)&0x0f
}
