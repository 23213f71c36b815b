package protocol

import (
	"errors"
	"testing"
)

func TestTargetScaleRoundTrip(t *testing.T) {
	for c := 16.0; c <= 31.5; c += 0.5 {
		raw, err := TargetScale.Encode(c)
		if err != nil {
			t.Fatalf("Encode(%.1f): %v", c, err)
		}
		if got := TargetScale.Decode(raw); got != c {
			t.Errorf("Decode(Encode(%.1f)) = %.1f", c, got)
		}
	}
}

func TestTargetScaleKnownBytes(t *testing.T) {
	tests := []struct {
		raw     byte
		celsius float64
	}{
		{0x00, 31.0},
		{0x0f, 16.0},
		{0x09, 22.0},
		{0x19, 22.5},
		{0x1f, 16.5},
	}
	for _, tt := range tests {
		if got := TargetScale.Decode(tt.raw); got != tt.celsius {
			t.Errorf("Decode(0x%02x) = %.1f, want %.1f", tt.raw, got, tt.celsius)
		}
		raw, err := TargetScale.Encode(tt.celsius)
		if err != nil {
			t.Fatalf("Encode(%.1f): %v", tt.celsius, err)
		}
		if raw != tt.raw {
			t.Errorf("Encode(%.1f) = 0x%02x, want 0x%02x", tt.celsius, raw, tt.raw)
		}
	}
}

func TestHalfDegScaleRoundTrip(t *testing.T) {
	for c := 0.0; c <= 63.5; c += 0.5 {
		raw, err := HalfDegScale.Encode(c)
		if err != nil {
			t.Fatalf("Encode(%.1f): %v", c, err)
		}
		if got := HalfDegScale.Decode(raw); got != c {
			t.Errorf("Decode(Encode(%.1f)) = %.1f", c, got)
		}
	}
	if raw, _ := HalfDegScale.Encode(22.5); raw != 0xad {
		t.Errorf("Encode(22.5) = 0x%02x, want 0xad", raw)
	}
}

func TestSensorScaleClampsDecode(t *testing.T) {
	// Encodable range is wider than the plausible sensor range; decode
	// clamps to 0..40 so a glitched reading never produces nonsense.
	if got := SensorScale.Decode(0xff); got != 40.0 {
		t.Errorf("Decode(0xff) = %.1f, want 40.0", got)
	}
	if got := SensorScale.Decode(0x00); got != 0.0 {
		t.Errorf("Decode(0x00) = %.1f, want 0.0", got)
	}
	if got := SensorScale.Decode(0xad); got != 22.5 {
		t.Errorf("Decode(0xad) = %.1f, want 22.5", got)
	}
}

func TestOffsetScaleRoundTrip(t *testing.T) {
	for c := 10.0; c <= 50.0; c++ {
		raw, err := OffsetScale.Encode(c)
		if err != nil {
			t.Fatalf("Encode(%.1f): %v", c, err)
		}
		if got := OffsetScale.Decode(raw); got != c {
			t.Errorf("Decode(Encode(%.1f)) = %.1f", c, got)
		}
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		scale TemperatureScale
		value float64
	}{
		{"target below", TargetScale, 15.5},
		{"target above", TargetScale, 32.0},
		{"target not half step", TargetScale, 22.3},
		{"halfdeg negative", HalfDegScale, -0.5},
		{"halfdeg above", HalfDegScale, 64.0},
		{"offset below", OffsetScale, 9.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scale.Encode(tt.value)
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Encode(%v) error = %v, want *RangeError", tt.value, err)
			}
			if rangeErr.Value != tt.value {
				t.Errorf("RangeError.Value = %v, want %v", rangeErr.Value, tt.value)
			}
		})
	}
}
