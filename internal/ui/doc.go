// Package ui provides terminal UI components for the melair-ctl CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal
// output. Most commands follow a "run once and exit" pattern: a Header
// banner, the rendered result, and a success or failure box. The monitor
// command is the exception and runs a full interactive Bubble Tea program.
//
// # Components
//
//   - Header: command banner showing operation name and parameters
//   - Result: success/failure/warning boxes with styled details
//   - RenderStatusReport: the device state report shared by the status
//     command and the live monitor
//   - MonitorModel: interactive live view that polls the adapter on a
//     fixed interval
//
// One-shot commands print through a Printer:
//
//	p := ui.NewPrinter(nil)
//	p.PrintHeader("Device Status", "melair-ctl status", map[string]string{
//	    "Host": host,
//	})
//	p.Println(ui.RenderStatusReport(ctrl.Snapshot(), p.Width()))
//
// # Logging Integration
//
// This package expects logging to be controlled via the MELAIR_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly. Set MELAIR_LOG_LEVEL to
// "debug", "info", "warn", or "error" to enable logging output.
package ui
