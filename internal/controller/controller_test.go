package controller

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/kazehome/melair/internal/protocol"
	"github.com/kazehome/melair/internal/transport"
)

// fakeTransport returns a fixed status and records sent frames.
type fakeTransport struct {
	status     *transport.DeviceStatus
	sent       [][]byte
	fetchCalls int
	echonet    bool
}

func (f *fakeTransport) FetchStatus(ctx context.Context) (*transport.DeviceStatus, error) {
	f.fetchCalls++
	return f.status, nil
}

func (f *fakeTransport) SendFrame(ctx context.Context, frame []byte) (*transport.DeviceStatus, error) {
	f.sent = append(f.sent, frame)
	return f.status, nil
}

func (f *fakeTransport) EnableEchonet(ctx context.Context) error {
	f.echonet = true
	return nil
}

func (f *fakeTransport) GetUnitInfo(ctx context.Context) (*transport.UnitInfo, error) {
	return &transport.UnitInfo{AdapterName: "MAC-577IF-2E"}, nil
}

// statusWith wraps records into response frames the way the adapter does.
func statusWith(records ...protocol.GroupRecord) *transport.DeviceStatus {
	status := &transport.DeviceStatus{
		MAC:    "a0:e7:0b:00:00:01",
		Serial: "2417P00001",
	}
	for _, rec := range records {
		status.Frames = append(status.Frames, protocol.EncodeFrame(protocol.TransferResponse, rec))
	}
	return status
}

// idleGeneral is a unit at rest with setpoint 22.0 °C.
func idleGeneral() *protocol.GeneralState {
	return &protocol.GeneralState{TargetRaw: 0x09, TargetFineRaw: 0xac}
}

func TestFetchStatusPopulatesSnapshot(t *testing.T) {
	ft := &fakeTransport{status: statusWith(
		idleGeneral(),
		&protocol.SensorState{RoomRaw: 0xaa},
		&protocol.ErrorState{CodeRaw: [2]byte{0x80, 0x00}},
	)}
	c := New(ft)

	if _, ok := c.Snapshot().General(); ok {
		t.Fatal("snapshot reports general state before any fetch")
	}
	if err := c.FetchStatus(context.Background()); err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}

	general, ok := c.Snapshot().General()
	if !ok {
		t.Fatal("no general state after fetch")
	}
	if got := general.TargetTemperature(); got != 22.0 {
		t.Errorf("TargetTemperature = %.1f, want 22.0", got)
	}
	sensor, ok := c.Snapshot().Sensor()
	if !ok {
		t.Fatal("no sensor state after fetch")
	}
	if got := sensor.RoomTemperature(); got != 21.0 {
		t.Errorf("RoomTemperature = %.1f, want 21.0", got)
	}
	errState, ok := c.Snapshot().Error()
	if !ok || errState.Abnormal() {
		t.Errorf("error state = %+v, %v, want healthy state present", errState, ok)
	}
	if got := c.Snapshot().Generation(); got != 1 {
		t.Errorf("Generation = %d, want 1", got)
	}
	if _, serial, _, _ := c.Snapshot().Identity(); serial != "2417P00001" {
		t.Errorf("serial = %q", serial)
	}
}

func TestFetchStatusSkipsBadFrames(t *testing.T) {
	status := statusWith(idleGeneral())
	corrupt := append([]byte(nil), status.Frames[0]...)
	corrupt[len(corrupt)-1] ^= 0xff
	status.Frames = append(status.Frames, corrupt)

	c := New(&fakeTransport{status: status})
	if err := c.FetchStatus(context.Background()); err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}
	if _, ok := c.Snapshot().General(); !ok {
		t.Error("valid frame not applied alongside a corrupt one")
	}
}

func TestFetchStatusAllFramesBad(t *testing.T) {
	status := statusWith(idleGeneral())
	status.Frames[0][len(status.Frames[0])-1] ^= 0xff

	c := New(&fakeTransport{status: status})
	err := c.FetchStatus(context.Background())
	if err == nil {
		t.Fatal("FetchStatus succeeded with only corrupt frames")
	}
	var csErr *protocol.ChecksumError
	if !errors.As(err, &csErr) {
		t.Errorf("error = %v, want wrapped *ChecksumError", err)
	}
	if got := c.Snapshot().Generation(); got != 0 {
		t.Errorf("Generation = %d after failed ingest, want 0", got)
	}
}

func TestSetPowerSendsGoldenFrame(t *testing.T) {
	ft := &fakeTransport{status: statusWith(idleGeneral())}
	c := New(ft)

	if err := c.SetPower(context.Background(), protocol.PowerOn); err != nil {
		t.Fatalf("SetPower: %v", err)
	}
	if ft.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1 lazy fetch before the command", ft.fetchCalls)
	}
	if len(ft.sent) != 1 {
		t.Fatalf("sent %d frames, want 1", len(ft.sent))
	}
	want := mustHexFrame(t, "fc410130100101020100090000000000000000ac4183")
	if !bytes.Equal(ft.sent[0], want) {
		t.Errorf("frame = %x\nwant    %x", ft.sent[0], want)
	}
}

func TestSetTemperatureOutOfRange(t *testing.T) {
	ft := &fakeTransport{status: statusWith(idleGeneral())}
	c := New(ft)

	err := c.SetTemperature(context.Background(), 45)
	var rangeErr *protocol.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("error = %v, want *RangeError", err)
	}
	if len(ft.sent) != 0 {
		t.Errorf("sent %d frames for a rejected value, want 0", len(ft.sent))
	}
}

func TestSetDehumidifierValidation(t *testing.T) {
	ft := &fakeTransport{status: statusWith(idleGeneral())}
	c := New(ft)

	if err := c.SetDehumidifier(context.Background(), 150); err == nil {
		t.Error("SetDehumidifier(150) succeeded")
	}
	if len(ft.sent) != 0 {
		t.Errorf("sent %d frames for a rejected level, want 0", len(ft.sent))
	}

	if err := c.SetDehumidifier(context.Background(), 40); err != nil {
		t.Fatalf("SetDehumidifier(40): %v", err)
	}
	if len(ft.sent) != 1 {
		t.Fatalf("sent %d frames, want 1", len(ft.sent))
	}
	if group := ft.sent[0][5]; group != protocol.GroupExtend08 {
		t.Errorf("command group = 0x%02x, want 0x%02x", group, protocol.GroupExtend08)
	}
}

func TestSetRemoteTemperature(t *testing.T) {
	ft := &fakeTransport{status: statusWith(idleGeneral())}
	c := New(ft)

	if err := c.SetRemoteTemperature(context.Background(), protocol.UseRemoteTemperature, 27); err != nil {
		t.Fatalf("SetRemoteTemperature: %v", err)
	}
	want := mustHexFrame(t, "fc41013010070104b6000000000000000000000000bc")
	if len(ft.sent) != 1 || !bytes.Equal(ft.sent[0], want) {
		t.Errorf("sent = %x, want %x", ft.sent, want)
	}
	if ft.fetchCalls != 0 {
		t.Errorf("fetchCalls = %d, remote temperature needs no prior state", ft.fetchCalls)
	}
}

func TestEnableEchonet(t *testing.T) {
	ft := &fakeTransport{status: statusWith(idleGeneral())}
	c := New(ft)
	if err := c.EnableEchonet(context.Background()); err != nil {
		t.Fatalf("EnableEchonet: %v", err)
	}
	if !ft.echonet {
		t.Error("echonet enable not forwarded to the transport")
	}
}

func TestCommandResponseUpdatesSnapshot(t *testing.T) {
	on := idleGeneral()
	on.SetPower(protocol.PowerOn)
	ft := &fakeTransport{status: statusWith(on)}
	c := New(ft)

	if err := c.SetPower(context.Background(), protocol.PowerOn); err != nil {
		t.Fatalf("SetPower: %v", err)
	}
	general, ok := c.Snapshot().General()
	if !ok || general.Power() != protocol.PowerOn {
		t.Error("snapshot does not reflect the command response")
	}
}

func mustHexFrame(t *testing.T, s string) []byte {
	t.Helper()
	frame, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return frame
}
