// Package controller provides the high-level API over the frame codec and
// the device transport: fetch state, change settings, query the adapter.
package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kazehome/melair/internal/logging"
	"github.com/kazehome/melair/internal/protocol"
	"github.com/kazehome/melair/internal/transport"
)

// Transport is the device communication surface the controller needs.
// *transport.Client implements it; tests inject fakes.
type Transport interface {
	FetchStatus(ctx context.Context) (*transport.DeviceStatus, error)
	SendFrame(ctx context.Context, frame []byte) (*transport.DeviceStatus, error)
	EnableEchonet(ctx context.Context) error
	GetUnitInfo(ctx context.Context) (*transport.UnitInfo, error)
}

// Controller drives one indoor unit through its Wi-Fi adapter.
type Controller struct {
	transport Transport
	snapshot  *DeviceStateSnapshot
}

// New creates a controller on top of a transport.
func New(t Transport) *Controller {
	return &Controller{transport: t, snapshot: newSnapshot()}
}

// Snapshot returns the controller's device state snapshot. The snapshot is
// live: every successful fetch or command response updates it.
func (c *Controller) Snapshot() *DeviceStateSnapshot { return c.snapshot }

// FetchStatus polls the unit and updates the snapshot.
func (c *Controller) FetchStatus(ctx context.Context) error {
	status, err := c.transport.FetchStatus(ctx)
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}
	return c.ingest(status)
}

func (c *Controller) ingest(status *transport.DeviceStatus) error {
	applied, errs := c.snapshot.ingest(status)
	for _, err := range errs {
		logging.Warn("Dropping invalid frame", zap.Error(err))
	}
	if applied == 0 && len(errs) > 0 {
		return fmt.Errorf("no valid frames in response: %w", errs[0])
	}
	return nil
}

// generalState returns the working copy command builders start from,
// fetching the current state first if none has been observed.
func (c *Controller) generalState(ctx context.Context) (protocol.GeneralState, error) {
	if state, ok := c.snapshot.General(); ok {
		return state, nil
	}
	if err := c.FetchStatus(ctx); err != nil {
		return protocol.GeneralState{}, err
	}
	state, ok := c.snapshot.General()
	if !ok {
		return protocol.GeneralState{}, fmt.Errorf("unit did not report a general state")
	}
	return state, nil
}

func (c *Controller) send(ctx context.Context, frame []byte) error {
	status, err := c.transport.SendFrame(ctx, frame)
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	return c.ingest(status)
}

// sendGeneral mutates a copy of the current state and sends a general
// control frame selecting the given fields.
func (c *Controller) sendGeneral(ctx context.Context, set protocol.GeneralControl, mutate func(*protocol.GeneralState) error) error {
	state, err := c.generalState(ctx)
	if err != nil {
		return err
	}
	if err := mutate(&state); err != nil {
		return err
	}
	frame, err := protocol.BuildGeneralControl(&state, set, protocol.RemoteLockNone)
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

func (c *Controller) sendExtend08(ctx context.Context, set protocol.Extend08Control, mutate func(*protocol.GeneralState)) error {
	state, err := c.generalState(ctx)
	if err != nil {
		return err
	}
	mutate(&state)
	return c.send(ctx, protocol.BuildExtend08(&state, set))
}

// SetPower turns the unit on or off.
func (c *Controller) SetPower(ctx context.Context, p protocol.Power) error {
	return c.sendGeneral(ctx, protocol.GeneralControl{Power: true}, func(s *protocol.GeneralState) error {
		s.SetPower(p)
		return nil
	})
}

// SetMode changes the drive mode.
func (c *Controller) SetMode(ctx context.Context, m protocol.DriveMode) error {
	return c.sendGeneral(ctx, protocol.GeneralControl{Mode: true}, func(s *protocol.GeneralState) error {
		s.SetMode(m)
		return nil
	})
}

// SetTemperature changes the setpoint. The value must be inside the unit's
// settable range; out of range reports a *protocol.RangeError.
func (c *Controller) SetTemperature(ctx context.Context, celsius float64) error {
	return c.sendGeneral(ctx, protocol.GeneralControl{Temperature: true}, func(s *protocol.GeneralState) error {
		return s.SetTargetTemperature(celsius)
	})
}

// SetFanSpeed changes the fan speed.
func (c *Controller) SetFanSpeed(ctx context.Context, w protocol.WindSpeed) error {
	return c.sendGeneral(ctx, protocol.GeneralControl{FanSpeed: true}, func(s *protocol.GeneralState) error {
		s.SetFanSpeed(w)
		return nil
	})
}

// SetVerticalVane changes the up/down vane position.
func (c *Controller) SetVerticalVane(ctx context.Context, v protocol.VerticalVane) error {
	return c.sendGeneral(ctx, protocol.GeneralControl{VerticalVane: true}, func(s *protocol.GeneralState) error {
		s.SetVerticalVane(v)
		return nil
	})
}

// SetHorizontalVane changes the left/right vane position.
func (c *Controller) SetHorizontalVane(ctx context.Context, h protocol.HorizontalVane) error {
	return c.sendGeneral(ctx, protocol.GeneralControl{HorizontalVane: true}, func(s *protocol.GeneralState) error {
		s.SetHorizontalVane(h)
		return nil
	})
}

// SetRemoteLock restricts (or frees) the infrared remote.
func (c *Controller) SetRemoteLock(ctx context.Context, lock protocol.RemoteLock) error {
	state, err := c.generalState(ctx)
	if err != nil {
		return err
	}
	frame, err := protocol.BuildGeneralControl(&state, protocol.GeneralControl{RemoteLock: true}, lock)
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

// SetDehumidifier changes the dehumidifier level (0-100).
func (c *Controller) SetDehumidifier(ctx context.Context, level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("dehumidifier level %d out of range 0-100", level)
	}
	return c.sendExtend08(ctx, protocol.Extend08Control{Dehumidifier: true}, func(s *protocol.GeneralState) {
		s.DehumRaw = byte(level)
	})
}

// SetPowerSaving turns power saving mode on or off.
func (c *Controller) SetPowerSaving(ctx context.Context, on bool) error {
	return c.sendExtend08(ctx, protocol.Extend08Control{PowerSaving: true}, func(s *protocol.GeneralState) {
		if on {
			s.PowerSaveRaw = 0x01
		} else {
			s.PowerSaveRaw = 0x00
		}
	})
}

// Buzzer makes the indoor unit beep once.
func (c *Controller) Buzzer(ctx context.Context) error {
	return c.sendExtend08(ctx, protocol.Extend08Control{Buzzer: true}, func(*protocol.GeneralState) {})
}

// SetRemoteTemperature feeds the unit an external thermostat reading, or
// switches it back to its internal sensor.
func (c *Controller) SetRemoteTemperature(ctx context.Context, mode protocol.RemoteTemperatureMode, celsius float64) error {
	frame, err := protocol.BuildRemoteTemperature(mode, celsius)
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

// EnableEchonet turns on the adapter's ECHONET Lite interface.
func (c *Controller) EnableEchonet(ctx context.Context) error {
	return c.transport.EnableEchonet(ctx)
}

// UnitInfo fetches the adapter's admin information page.
func (c *Controller) UnitInfo(ctx context.Context) (*transport.UnitInfo, error) {
	return c.transport.GetUnitInfo(ctx)
}
