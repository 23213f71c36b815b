//go:build ignore

// Decode-frame parses hex frame dumps from the command line and prints the
// decoded fields. Handy when staring at MELAIR_LOG_LEVEL=debug output or at
// packet captures.
//
// Usage:
//
//	go run tools/decode-frame.go fc62013010020000010b190001000085ad28000000db ...
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/kazehome/melair/internal/protocol"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: decode-frame <hex frame> [...]")
		os.Exit(1)
	}

	exit := 0
	for _, arg := range os.Args[1:] {
		if err := decodeOne(arg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			exit = 1
		}
	}
	os.Exit(exit)
}

func decodeOne(arg string) error {
	cleaned := strings.ReplaceAll(strings.TrimSpace(arg), " ", "")
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return fmt.Errorf("not hex: %w", err)
	}

	frame, err := protocol.DecodeFrame(raw)
	if err != nil {
		return err
	}

	fmt.Printf("frame: %d bytes, transfer mode 0x%02x, group 0x%02x (%s)\n",
		len(raw), frame.TransferMode, frame.GroupCode(), protocol.GroupName(frame.GroupCode()))

	switch rec := frame.Record.(type) {
	case *protocol.GeneralState:
		fmt.Printf("  power %s, mode %s, setpoint %.1f°C\n", rec.Power(), rec.Mode(), rec.TargetTemperature())
		fmt.Printf("  fan %s, vane %s, wide vane %s\n", rec.FanSpeed(), rec.VerticalVane(), rec.HorizontalVane())
	case *protocol.SensorState:
		fmt.Printf("  room %.1f°C", rec.RoomTemperature())
		if outside, ok := rec.OutsideTemperature(); ok {
			fmt.Printf(", outside %.1f°C", outside)
		}
		fmt.Printf(", runtime %s\n", rec.Runtime())
	case *protocol.ErrorState:
		if rec.Abnormal() {
			fmt.Printf("  error code 0x%04x\n", rec.ErrorCode())
		} else {
			fmt.Println("  no error")
		}
	case *protocol.EnergyState:
		fmt.Printf("  operating %v, compressor %d Hz, %d W\n", rec.Operating(), rec.CompressorFrequency(), rec.PowerWatts())
	case *protocol.AutoModeState:
		fmt.Printf("  auto-mode stage %d\n", rec.Stage())
	case *protocol.UnknownState:
		fmt.Printf("  undocumented group, payload %x\n", rec.Payload)
	}
	return nil
}
