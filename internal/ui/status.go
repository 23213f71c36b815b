package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kazehome/melair/internal/controller"
	"github.com/kazehome/melair/internal/discovery"
	"github.com/kazehome/melair/internal/protocol"
	"github.com/kazehome/melair/internal/transport"
)

// FormatTemperature renders a temperature value as "22.5°C"
func FormatTemperature(celsius float64) string {
	return fmt.Sprintf("%.1f°C", celsius)
}

func fieldLine(key, value string) string {
	return FieldKeyStyle.Render(key) + FieldValueStyle.Render(value)
}

// RenderStatusReport renders the full device state as a bordered report.
// Sections for which no frame has been received yet are omitted.
func RenderStatusReport(snap *controller.DeviceStateSnapshot, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string

	mac, serial, rssi, appVersion := snap.Identity()
	if serial != "" || mac != "" {
		lines = append(lines, SectionTitleStyle.Render("Adapter"))
		if serial != "" {
			lines = append(lines, fieldLine("Serial", serial))
		}
		if mac != "" {
			lines = append(lines, fieldLine("MAC", mac))
		}
		if rssi != "" {
			lines = append(lines, fieldLine("RSSI", rssi))
		}
		if appVersion != "" {
			lines = append(lines, fieldLine("App version", appVersion))
		}
		lines = append(lines, "")
	}

	if general, ok := snap.General(); ok {
		lines = append(lines, SectionTitleStyle.Render("Operation"))
		power := OffStyle.Render("OFF")
		if general.Power() == protocol.PowerOn {
			power = OnStyle.Render("ON")
		}
		lines = append(lines, FieldKeyStyle.Render("Power")+power)
		mode := general.Mode().String()
		if general.ISeeActive() {
			mode += " (i-See)"
		}
		lines = append(lines, fieldLine("Mode", mode))
		lines = append(lines, fieldLine("Setpoint", FormatTemperature(general.TargetTemperature())))
		lines = append(lines, fieldLine("Fan", general.FanSpeed().String()))
		lines = append(lines, fieldLine("Vane", general.VerticalVane().String()))
		lines = append(lines, fieldLine("Wide vane", general.HorizontalVane().String()))
		if general.Mode() == protocol.ModeDehum {
			lines = append(lines, fieldLine("Dehumidifier", fmt.Sprintf("%d%%", general.Dehumidifier())))
		}
		if general.PowerSaving() {
			lines = append(lines, FieldKeyStyle.Render("Power saving")+OnStyle.Render("ON"))
		}
		lines = append(lines, "")
	}

	if sensor, ok := snap.Sensor(); ok {
		lines = append(lines, SectionTitleStyle.Render("Sensors"))
		lines = append(lines, fieldLine("Room", FormatTemperature(sensor.RoomTemperature())))
		if outside, ok := sensor.OutsideTemperature(); ok {
			lines = append(lines, fieldLine("Outside", FormatTemperature(outside)))
		}
		lines = append(lines, fieldLine("Runtime", sensor.Runtime().String()))
		lines = append(lines, "")
	}

	if errState, ok := snap.Error(); ok {
		lines = append(lines, SectionTitleStyle.Render("Diagnostics"))
		if errState.Abnormal() {
			lines = append(lines, FieldKeyStyle.Render("Error")+
				FaultStyle.Render(fmt.Sprintf("code 0x%04x", errState.ErrorCode())))
		} else {
			lines = append(lines, FieldKeyStyle.Render("Error")+OnStyle.Render("none"))
		}
		if energy, ok := snap.Energy(); ok {
			operating := OffStyle.Render("idle")
			if energy.Operating() {
				operating = OnStyle.Render("running")
			}
			lines = append(lines, FieldKeyStyle.Render("Compressor")+operating)
			lines = append(lines, fieldLine("Frequency", fmt.Sprintf("%d Hz", energy.CompressorFrequency())))
			lines = append(lines, fieldLine("Power draw", fmt.Sprintf("%d W", energy.PowerWatts())))
		}
		if auto, ok := snap.AutoMode(); ok {
			lines = append(lines, fieldLine("Auto stage", fmt.Sprintf("%d", auto.Stage())))
		}
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		lines = append(lines, OffStyle.Render("No state received from the device yet."))
	}

	content := strings.Join(lines, "\n")
	return StatusBoxStyle(width).Render(content)
}

// RenderUnitInfo renders the adapter maintenance page fields as a bordered
// report. Known fields come first; any unrecognized labels follow in
// alphabetical order.
func RenderUnitInfo(info *transport.UnitInfo, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Unit info"))

	known := []struct {
		key   string
		value string
	}{
		{"Adapter", info.AdapterName},
		{"App version", info.AppVersion},
		{"Release", info.ReleaseVersion},
		{"MAC", info.MACAddress},
		{"Serial", info.SerialID},
		{"RSSI", info.RSSI},
		{"IP address", info.IPAddress},
		{"Manufactured", info.ManufacturingDate},
	}
	seen := map[string]bool{
		"Adaptor name":        true,
		"Application version": true,
		"Release version":     true,
		"MAC address":         true,
		"ID":                  true,
		"RSSI":                true,
		"IP address":          true,
		"Manufacturing date":  true,
	}
	for _, f := range known {
		if f.value != "" {
			lines = append(lines, fieldLine(f.key, f.value))
		}
	}

	var extras []string
	for label := range info.Fields {
		if !seen[label] {
			extras = append(extras, label)
		}
	}
	sort.Strings(extras)
	for _, label := range extras {
		lines = append(lines, fieldLine(label, info.Fields[label]))
	}

	content := strings.Join(lines, "\n")
	return StatusBoxStyle(width).Render(content)
}

// RenderDeviceList renders discovered adapters, one per line
func RenderDeviceList(devices []*discovery.Device, width int) string {
	if len(devices) == 0 {
		return OffStyle.Render("No adapters found.")
	}

	var lines []string
	lines = append(lines, SectionTitleStyle.Render(fmt.Sprintf("Found %d adapter(s)", len(devices))))
	for _, d := range devices {
		name := FieldValueStyle.Render(d.Serial)
		addr := OffStyle.Render(fmt.Sprintf("  %s:%d", d.IP, d.Port))
		line := "  " + SuccessMarker + " " + name + addr
		if fw, ok := d.Metadata["srcvers"]; ok {
			line += OffStyle.Render("  firmware " + fw)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
