package protocol

import "fmt"

// Frame framing constants
const (
	// FrameMagic is the first byte of every frame.
	FrameMagic = 0xfc

	// MinFrameSize is magic + transfer mode + 3 prefix bytes + group code + checksum.
	MinFrameSize = 7

	// checksum position is always the final byte; the checksum covers
	// bytes 1..N-1 (the magic byte is excluded, verified against captures).
)

// DefaultStaticPrefix is the protocol-revision prefix at frame bytes 2-4.
// Observed as 01 30 10 on every captured frame; preserved but not enforced
// on decode so that a firmware revision bump does not brick parsing.
var DefaultStaticPrefix = [3]byte{0x01, 0x30, 0x10}

// Transfer modes (frame byte 1)
const (
	TransferWrite       = 0x41 // command write from client to device
	TransferRequest     = 0x42 // status request
	TransferWriteAck    = 0x61 // device acknowledgement of a write
	TransferResponse    = 0x62 // status response
	TransferResponseAlt = 0x7b // alternate response marker seen on newer firmware
)

// Group codes (frame byte 5)
const (
	GroupGeneralSet = 0x01 // outbound general control command
	GroupGeneral    = 0x02 // general state (power, mode, setpoint, vanes)
	GroupSensor     = 0x03 // sensor state (room/outside temperature, runtime)
	GroupError      = 0x04 // error state
	GroupTimer      = 0x05 // timer settings, layout undocumented
	GroupEnergy     = 0x06 // energy and operating status
	GroupRemoteTemp = 0x07 // outbound remote temperature command
	GroupExtend08   = 0x08 // outbound extended control (buzzer, dehum, power saving)
	GroupAutoMode   = 0x09 // auto mode type flag
)

// GroupName returns a human-readable name for a group code.
func GroupName(code byte) string {
	switch code {
	case GroupGeneralSet:
		return "GeneralSet"
	case GroupGeneral:
		return "General"
	case GroupSensor:
		return "Sensor"
	case GroupError:
		return "Error"
	case GroupTimer:
		return "Timer"
	case GroupEnergy:
		return "Energy"
	case GroupRemoteTemp:
		return "RemoteTemp"
	case GroupExtend08:
		return "Extend08"
	case GroupAutoMode:
		return "AutoMode"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", code)
	}
}

// Power represents the on/off state.
type Power byte

const (
	PowerOff Power = 0x00
	PowerOn  Power = 0x01
)

func (p Power) String() string {
	if p == PowerOn {
		return "ON"
	}
	return "OFF"
}

// powerFromRaw maps the raw power byte to a Power value. The device reports
// 0x02 for "on via timer", which still means on.
func powerFromRaw(raw byte) Power {
	if raw == 0x01 || raw == 0x02 {
		return PowerOn
	}
	return PowerOff
}

// DriveMode is the operating mode. Values are the device's own encoding;
// AUTO is 8, not 0, and the extended auto modes report which branch the
// unit actually chose.
type DriveMode byte

const (
	ModeHeater     DriveMode = 1
	ModeDehum      DriveMode = 2
	ModeCooler     DriveMode = 3
	ModeFan        DriveMode = 7
	ModeAuto       DriveMode = 8
	ModeAutoHeater DriveMode = 0x19
	ModeAutoCooler DriveMode = 0x1b
)

func (m DriveMode) String() string {
	switch m {
	case ModeHeater:
		return "HEATER"
	case ModeDehum:
		return "DEHUM"
	case ModeCooler:
		return "COOLER"
	case ModeFan:
		return "FAN"
	case ModeAuto:
		return "AUTO"
	case ModeAutoHeater:
		return "AUTO_HEATER"
	case ModeAutoCooler:
		return "AUTO_COOLER"
	default:
		return fmt.Sprintf("DriveMode(0x%02x)", byte(m))
	}
}

// driveModeFromRaw extracts the drive mode from the raw mode byte.
//
// Bit layout (from the niobos/SwiCago analysis):
//
//	bits 0-2  drive mode
//	bit 3     i-See sensor flag, except the whole byte 0x08 means AUTO
//	bits 4-7  reserved
func driveModeFromRaw(raw byte) (mode DriveMode, iSee bool) {
	if raw == 0x08 {
		return ModeAuto, false
	}
	if raw == 0x19 || raw == 0x1b {
		return DriveMode(raw), false
	}
	iSee = raw&0x08 != 0
	switch low := raw & 0x07; low {
	case 1, 2, 3, 7:
		return DriveMode(low), iSee
	default:
		// unknown low bits; report FAN like the stock firmware apps do
		return ModeFan, iSee
	}
}

// WindSpeed is the fan speed setting. Level 4 is 5 on the wire; 4 is unused.
type WindSpeed byte

const (
	WindAuto   WindSpeed = 0
	WindLevel1 WindSpeed = 1
	WindLevel2 WindSpeed = 2
	WindLevel3 WindSpeed = 3
	WindLevel4 WindSpeed = 5
	WindFull   WindSpeed = 6
)

func (w WindSpeed) String() string {
	switch w {
	case WindAuto:
		return "AUTO"
	case WindLevel1:
		return "LEVEL_1"
	case WindLevel2:
		return "LEVEL_2"
	case WindLevel3:
		return "LEVEL_3"
	case WindLevel4:
		return "LEVEL_4"
	case WindFull:
		return "FULL"
	default:
		return fmt.Sprintf("WindSpeed(0x%02x)", byte(w))
	}
}

// windSpeedFromRaw maps the raw fan byte; unknown values read as AUTO.
func windSpeedFromRaw(raw byte) WindSpeed {
	switch WindSpeed(raw) {
	case WindAuto, WindLevel1, WindLevel2, WindLevel3, WindLevel4, WindFull:
		return WindSpeed(raw)
	default:
		return WindAuto
	}
}

// VerticalVane is the up/down vane position.
type VerticalVane byte

const (
	VaneAuto  VerticalVane = 0
	VaneV1    VerticalVane = 1
	VaneV2    VerticalVane = 2
	VaneV3    VerticalVane = 3
	VaneV4    VerticalVane = 4
	VaneV5    VerticalVane = 5
	VaneSwing VerticalVane = 7
)

func (v VerticalVane) String() string {
	switch v {
	case VaneAuto:
		return "AUTO"
	case VaneSwing:
		return "SWING"
	case VaneV1, VaneV2, VaneV3, VaneV4, VaneV5:
		return fmt.Sprintf("V%d", byte(v))
	default:
		return fmt.Sprintf("VerticalVane(0x%02x)", byte(v))
	}
}

func verticalVaneFromRaw(raw byte) VerticalVane {
	switch VerticalVane(raw) {
	case VaneAuto, VaneV1, VaneV2, VaneV3, VaneV4, VaneV5, VaneSwing:
		return VerticalVane(raw)
	default:
		return VaneAuto
	}
}

// HorizontalVane is the left/right vane position (wide vane). On the wire it
// occupies the low nibble of its byte; the high nibble 0x80 is the wide-vane
// adjustment flag.
type HorizontalVane byte

const (
	HVaneAuto        HorizontalVane = 0
	HVaneLeft        HorizontalVane = 1
	HVaneLeftSlight  HorizontalVane = 2
	HVaneCenter      HorizontalVane = 3
	HVaneRightSlight HorizontalVane = 4
	HVaneRight       HorizontalVane = 5
	HVaneLC          HorizontalVane = 6
	HVaneCR          HorizontalVane = 7
	HVaneLR          HorizontalVane = 8
	HVaneLCR         HorizontalVane = 9
	HVaneLCRSwing    HorizontalVane = 12
)

func (h HorizontalVane) String() string {
	switch h {
	case HVaneAuto:
		return "AUTO"
	case HVaneLeft:
		return "L"
	case HVaneLeftSlight:
		return "LS"
	case HVaneCenter:
		return "C"
	case HVaneRightSlight:
		return "RS"
	case HVaneRight:
		return "R"
	case HVaneLC:
		return "LC"
	case HVaneCR:
		return "CR"
	case HVaneLR:
		return "LR"
	case HVaneLCR:
		return "LCR"
	case HVaneLCRSwing:
		return "LCR_S"
	default:
		return fmt.Sprintf("HorizontalVane(0x%02x)", byte(h))
	}
}

func horizontalVaneFromRaw(raw byte) HorizontalVane {
	switch v := HorizontalVane(raw & 0x0f); v {
	case HVaneAuto, HVaneLeft, HVaneLeftSlight, HVaneCenter, HVaneRightSlight,
		HVaneRight, HVaneLC, HVaneCR, HVaneLR, HVaneLCR, HVaneLCRSwing:
		return v
	default:
		return HVaneAuto
	}
}

// wideVaneAdjustFromRaw reports the adjustment flag in the high nibble.
func wideVaneAdjustFromRaw(raw byte) bool {
	return raw&0xf0 == 0x80
}
