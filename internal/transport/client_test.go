package transport

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kazehome/melair/internal/crypto"
	"github.com/kazehome/melair/internal/protocol"
	"github.com/kazehome/melair/internal/simulator"
)

func newTestPair(t *testing.T, key string) (*simulator.Device, *Client) {
	t.Helper()
	dev := simulator.New(key)
	srv := httptest.NewServer(dev)
	t.Cleanup(srv.Close)
	return dev, NewClient(strings.TrimPrefix(srv.URL, "http://"), key)
}

func TestFetchStatus(t *testing.T) {
	dev, client := newTestPair(t, crypto.DefaultKey)

	status, err := client.FetchStatus(context.Background())
	if err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}
	if status.Serial != dev.Serial {
		t.Errorf("Serial = %q, want %q", status.Serial, dev.Serial)
	}
	if status.MAC != dev.MAC {
		t.Errorf("MAC = %q, want %q", status.MAC, dev.MAC)
	}
	if len(status.Frames) == 0 {
		t.Fatal("no frames in status response")
	}

	var general *protocol.GeneralState
	for _, raw := range status.Frames {
		frame, err := protocol.DecodeFrame(raw)
		if err != nil {
			t.Fatalf("DecodeFrame(%x): %v", raw, err)
		}
		if g, ok := frame.Record.(*protocol.GeneralState); ok {
			general = g
		}
	}
	if general == nil {
		t.Fatal("status carried no general state frame")
	}
	if got := general.TargetTemperature(); got != 22.5 {
		t.Errorf("TargetTemperature = %.1f, want 22.5", got)
	}
}

func TestSendFrameAppliesCommand(t *testing.T) {
	dev, client := newTestPair(t, crypto.DefaultKey)

	state := dev.General()
	state.SetPower(protocol.PowerOn)
	frame, err := protocol.BuildGeneralControl(&state, protocol.GeneralControl{Power: true}, protocol.RemoteLockNone)
	if err != nil {
		t.Fatalf("BuildGeneralControl: %v", err)
	}

	status, err := client.SendFrame(context.Background(), frame)
	if err != nil {
		t.Fatalf("SendFrame: %v", err)
	}

	cmds := dev.Commands()
	if len(cmds) != 1 || !bytes.Equal(cmds[0], frame) {
		t.Fatalf("device recorded %d commands, want exactly the sent frame", len(cmds))
	}
	devState := dev.General()
	if got := devState.Power(); got != protocol.PowerOn {
		t.Errorf("device power = %v after command, want ON", got)
	}

	// The response echoes the post-command state.
	var sawPowerOn bool
	for _, raw := range status.Frames {
		f, err := protocol.DecodeFrame(raw)
		if err != nil {
			t.Fatalf("DecodeFrame(%x): %v", raw, err)
		}
		if g, ok := f.Record.(*protocol.GeneralState); ok && g.Power() == protocol.PowerOn {
			sawPowerOn = true
		}
	}
	if !sawPowerOn {
		t.Error("response frames do not reflect the applied command")
	}
}

func TestEnableEchonet(t *testing.T) {
	dev, client := newTestPair(t, crypto.DefaultKey)
	if err := client.EnableEchonet(context.Background()); err != nil {
		t.Fatalf("EnableEchonet: %v", err)
	}
	if !dev.EchonetEnabled() {
		t.Error("device did not record the ECHONET enable request")
	}
}

func TestWrongKeyRejected(t *testing.T) {
	dev := simulator.New("devicekey")
	srv := httptest.NewServer(dev)
	t.Cleanup(srv.Close)

	client := NewClient(strings.TrimPrefix(srv.URL, "http://"), "wrongkey")
	_, err := client.FetchStatus(context.Background())
	if err == nil {
		t.Fatal("FetchStatus succeeded with the wrong key")
	}
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("error = %v, want *DeviceError", err)
	}
}

func TestGetUnitInfo(t *testing.T) {
	dev, client := newTestPair(t, crypto.DefaultKey)

	info, err := client.GetUnitInfo(context.Background())
	if err != nil {
		t.Fatalf("GetUnitInfo: %v", err)
	}
	if info.AdapterName != "MAC-577IF-2E" {
		t.Errorf("AdapterName = %q, want MAC-577IF-2E", info.AdapterName)
	}
	if info.SerialID != dev.Serial {
		t.Errorf("SerialID = %q, want %q", info.SerialID, dev.Serial)
	}
	if info.MACAddress != dev.MAC {
		t.Errorf("MACAddress = %q, want %q", info.MACAddress, dev.MAC)
	}
	if len(info.Fields) < 5 {
		t.Errorf("parsed %d fields, want the full table", len(info.Fields))
	}
}

func TestGetUnitInfoBadCredentials(t *testing.T) {
	_, client := newTestPair(t, crypto.DefaultKey)
	client.SetAdminAuth("admin", "nope")

	_, err := client.GetUnitInfo(context.Background())
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("error = %v, want *DeviceError", err)
	}
	if devErr.Type != ErrTypeAuth {
		t.Errorf("error type = %v, want %v", devErr.Type, ErrTypeAuth)
	}
}

func TestParseUnitInfoTableVariants(t *testing.T) {
	// Older firmware serves td pairs instead of dt/dd.
	body := []byte(`<table><tr><td>Adaptor name</td><td>MAC-577IF-2E</td></tr>
<tr><td>RSSI</td><td>-38dBm</td></tr></table>`)
	info := parseUnitInfo(body)
	if info.AdapterName != "MAC-577IF-2E" {
		t.Errorf("AdapterName = %q", info.AdapterName)
	}
	if info.RSSI != "-38dBm" {
		t.Errorf("RSSI = %q", info.RSSI)
	}
}
