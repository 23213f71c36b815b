package protocol

import "math"

// TemperatureScale is an invertible mapping between a temperature in degrees
// Celsius and the single raw byte that carries it on the wire. The device
// uses several encodings depending on the field; each is a separate scale
// value so a wrong formula can be corrected in one place.
//
// Encode fails with *RangeError outside the scale's documented domain.
// Decode never fails: every byte maps to some value, and records keep the raw
// byte anyway so nothing is lost.
type TemperatureScale interface {
	Encode(celsius float64) (byte, error)
	Decode(raw byte) float64
}

var (
	// TargetScale encodes the setpoint "segment" byte: low bits are
	// 31 - whole degrees, bit 0x10 marks an extra half degree.
	// Domain 16..31.5 in 0.5 steps, the unit's settable range.
	TargetScale TemperatureScale = targetScale{}

	// HalfDegScale encodes 0x80 + 2×°C, the direct half-degree form used
	// by the fine setpoint byte and the remote temperature command.
	HalfDegScale TemperatureScale = halfDegScale{}

	// SensorScale is HalfDegScale with the decode clamped to the sensors'
	// reporting range 0..40 °C, matching device behaviour at the rails.
	SensorScale TemperatureScale = sensorScale{}

	// OffsetScale encodes °C - 10, used by the coarse room temperature.
	OffsetScale TemperatureScale = offsetScale{}
)

type targetScale struct{}

func (targetScale) Encode(c float64) (byte, error) {
	if c < 16 || c > 31.5 || !isHalfStep(c) {
		return 0, &RangeError{Transform: "target temperature", Value: c, Min: 16, Max: 31.5}
	}
	raw := byte(31 - int(c))
	if c != math.Trunc(c) {
		raw |= 0x10
	}
	return raw, nil
}

func (targetScale) Decode(raw byte) float64 {
	c := float64(31 - int(raw&0x0f))
	if raw&0x10 != 0 {
		c += 0.5
	}
	return c
}

type halfDegScale struct{}

func (halfDegScale) Encode(c float64) (byte, error) {
	if c < 0 || c > 63.5 || !isHalfStep(c) {
		return 0, &RangeError{Transform: "half-degree temperature", Value: c, Min: 0, Max: 63.5}
	}
	return byte(0x80 + int(c*2)), nil
}

func (halfDegScale) Decode(raw byte) float64 {
	return float64(int(raw)-0x80) / 2
}

type sensorScale struct{}

func (sensorScale) Encode(c float64) (byte, error) {
	if c < 0 || c > 40 || !isHalfStep(c) {
		return 0, &RangeError{Transform: "sensor temperature", Value: c, Min: 0, Max: 40}
	}
	return byte(0x80 + int(c*2)), nil
}

func (sensorScale) Decode(raw byte) float64 {
	c := float64(int(raw)-0x80) / 2
	if c < 0 {
		return 0
	}
	if c > 40 {
		return 40
	}
	return c
}

type offsetScale struct{}

func (offsetScale) Encode(c float64) (byte, error) {
	if c < 10 || c > 265 || c != math.Trunc(c) {
		return 0, &RangeError{Transform: "offset temperature", Value: c, Min: 10, Max: 265}
	}
	return byte(int(c) - 10), nil
}

func (offsetScale) Decode(raw byte) float64 {
	return float64(int(raw) + 10)
}

func isHalfStep(c float64) bool {
	return c*2 == math.Trunc(c*2)
}
