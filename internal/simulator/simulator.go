// Package simulator implements an in-process fake of the Wi-Fi adapter.
//
// The simulator answers the same two endpoints as real hardware: the
// encrypted /smart exchange and the Basic-Auth /unitinfo admin page. It
// keeps decoded group records as its state, applies incoming command frames
// to them, and records every received command so tests can assert on exact
// bytes. It is an http.Handler, so it runs under httptest as easily as on a
// real listener.
package simulator

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kazehome/melair/internal/crypto"
	"github.com/kazehome/melair/internal/logging"
	"github.com/kazehome/melair/internal/protocol"
)

// Identity defaults reported by a fresh simulator.
const (
	DefaultMAC    = "a0:e7:0b:00:00:01"
	DefaultSerial = "2417P00001"
)

// Device is a simulated adapter plus the indoor unit behind it.
type Device struct {
	MAC    string
	Serial string

	adminUsername string
	adminPassword string
	key           []byte

	mu       sync.Mutex
	general  *protocol.GeneralState
	sensor   *protocol.SensorState
	errState *protocol.ErrorState
	energy   *protocol.EnergyState
	commands [][]byte
	echonet  bool
}

// New creates a simulator with the given encryption key and a plausible
// idle state: powered off, cooler mode, setpoint 22.5 °C, room at 21 °C.
func New(key string) *Device {
	d := &Device{
		MAC:           DefaultMAC,
		Serial:        DefaultSerial,
		adminUsername: "admin",
		adminPassword: "me1debug@0567",
		key:           crypto.NormalizeKey(key),
		general: &protocol.GeneralState{
			ModeRaw:       byte(protocol.ModeCooler),
			TargetRaw:     0x19,
			TargetFineRaw: 0xad,
		},
		sensor: &protocol.SensorState{
			RoomCoarseRaw: 0x0b,
			OutsideRaw:    0xa5,
			RoomFineRaw:   0xaa,
			RoomRaw:       0xaa,
		},
		errState: &protocol.ErrorState{CodeRaw: [2]byte{0x80, 0x00}},
		energy:   &protocol.EnergyState{},
	}
	return d
}

// SetAdminAuth overrides the admin page credentials.
func (d *Device) SetAdminAuth(username, password string) {
	d.adminUsername = username
	d.adminPassword = password
}

// General returns a copy of the simulated general state.
func (d *Device) General() protocol.GeneralState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.general
}

// Commands returns every command frame received so far, oldest first.
func (d *Device) Commands() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.commands))
	copy(out, d.commands)
	return out
}

// EchonetEnabled reports whether an ECHONET enable request was seen.
func (d *Device) EchonetEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.echonet
}

// SetError puts the simulated unit into (or out of) a fault state.
func (d *Device) SetError(code uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errState.CodeRaw[0] = byte(code >> 8)
	d.errState.CodeRaw[1] = byte(code)
}

func (d *Device) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/smart":
		d.serveSmart(w, r)
	case "/unitinfo":
		d.serveUnitInfo(w, r)
	default:
		http.NotFound(w, r)
	}
}

// request/response documents, mirroring the real firmware's XML.

type simCodeEntry struct {
	Value string `xml:"VALUE"`
}

type simDocument struct {
	XMLName     xml.Name       `xml:"CSV"`
	Connect     string         `xml:"CONNECT,omitempty"`
	Codes       []simCodeEntry `xml:"CODE,omitempty"`
	MAC         string         `xml:"MAC,omitempty"`
	Serial      string         `xml:"SERIAL,omitempty"`
	RSSI        string         `xml:"RSSI,omitempty"`
	AppVersion  string         `xml:"APP_VER,omitempty"`
	ProfileCode string         `xml:"PROFILECODE,omitempty"`
	Echonet     string         `xml:"ECHONET,omitempty"`
}

type simEnvelope struct {
	XMLName xml.Name `xml:"ESV"`
	Payload string   `xml:",chardata"`
}

func (d *Device) serveSmart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	var env simEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		http.Error(w, "bad envelope", http.StatusBadRequest)
		return
	}
	plaintext, err := crypto.DecryptEnvelope(d.key, env.Payload)
	if err != nil {
		// Real firmware answers garbage under a wrong key; a 400 makes
		// test failures much easier to diagnose.
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	var doc simDocument
	if err := xml.Unmarshal(plaintext, &doc); err != nil {
		http.Error(w, "bad document", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	if doc.Echonet == "ON" {
		d.echonet = true
	}
	for _, code := range doc.Codes {
		frame, err := hex.DecodeString(strings.TrimSpace(code.Value))
		if err != nil {
			continue
		}
		d.commands = append(d.commands, frame)
		d.applyCommand(frame)
	}
	resp := d.statusDocumentLocked()
	d.mu.Unlock()

	inner, err := xml.Marshal(resp)
	if err != nil {
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	payload, err := crypto.EncryptEnvelope(d.key, inner)
	if err != nil {
		http.Error(w, "encrypt error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	fmt.Fprintf(w, "<LSV>%s</LSV>", payload)
}

// statusDocumentLocked builds the response document. Caller holds mu.
func (d *Device) statusDocumentLocked() *simDocument {
	records := []protocol.GroupRecord{d.general, d.sensor, d.errState, d.energy}
	doc := &simDocument{
		MAC:        d.MAC,
		Serial:     d.Serial,
		RSSI:       "-42dBm",
		AppVersion: "33.00",
	}
	for _, rec := range records {
		frame := protocol.EncodeFrame(protocol.TransferResponse, rec)
		doc.Codes = append(doc.Codes, simCodeEntry{Value: hex.EncodeToString(frame)})
	}
	return doc
}

// applyCommand mutates the simulated state the way the indoor unit would.
// Caller holds mu.
func (d *Device) applyCommand(frame []byte) {
	if len(frame) < protocol.MinFrameSize || frame[0] != protocol.FrameMagic {
		return
	}
	if !protocol.ValidateChecksum(frame) {
		logging.Warn("Simulator dropping frame with bad checksum",
			zap.String("hex", hex.EncodeToString(frame)))
		return
	}
	p := frame[6 : len(frame)-1]
	switch frame[5] {
	case protocol.GroupGeneralSet:
		if len(p) < 15 {
			return
		}
		if p[0]&0x01 != 0 {
			d.general.PowerRaw = p[2]
		}
		if p[0]&0x02 != 0 {
			d.general.ModeRaw = p[3]
		}
		if p[0]&0x04 != 0 {
			d.general.TargetRaw = p[4]
			d.general.TargetFineRaw = p[13]
		}
		if p[0]&0x08 != 0 {
			d.general.FanRaw = p[5]
		}
		if p[0]&0x10 != 0 {
			d.general.VaneRaw = p[6]
		}
		if p[1]&0x01 != 0 {
			d.general.SetHorizontalVane(protocol.HorizontalVane(p[12]))
		}
	case protocol.GroupExtend08:
		if len(p) < 15 {
			return
		}
		if p[0]&0x04 != 0 {
			d.general.DehumRaw = p[3]
		}
		if p[0]&0x08 != 0 {
			if p[4] == 0x0a {
				d.general.PowerSaveRaw = 0x01
			} else {
				d.general.PowerSaveRaw = 0x00
			}
		}
		if p[0]&0x20 != 0 {
			d.general.WindBreakRaw = p[5]
		}
	}
}

func (d *Device) serveUnitInfo(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != d.adminUsername || pass != d.adminPassword {
		w.Header().Set("WWW-Authenticate", `Basic realm="unitinfo"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<html><body><dl>
<dt>Adaptor name</dt><dd>MAC-577IF-2E</dd>
<dt>Application version</dt><dd>33.00</dd>
<dt>Release version</dt><dd>00.06</dd>
<dt>MAC address</dt><dd>%s</dd>
<dt>ID</dt><dd>%s</dd>
<dt>RSSI</dt><dd>-42dBm</dd>
<dt>IP address</dt><dd>192.168.1.100</dd>
<dt>Manufacturing date</dt><dd>2024/05/01</dd>
</dl></body></html>`, d.MAC, d.Serial)
}
