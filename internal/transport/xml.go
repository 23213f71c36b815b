package transport

import (
	"encoding/xml"
	"fmt"
)

// The adapter speaks XML in two layers. The HTTP body is a tiny envelope
// whose single element carries the base64 ciphertext: <ESV> on requests,
// <LSV> on responses. The decrypted payload is a <CSV> document listing
// frame hex strings plus adapter identity fields.

// Header is prepended to every request body. The adapter's parser wants the
// declaration exactly like this.
const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

type requestEnvelope struct {
	XMLName xml.Name `xml:"ESV"`
	Payload string   `xml:",chardata"`
}

type responseEnvelope struct {
	XMLName xml.Name `xml:"LSV"`
	Payload string   `xml:",chardata"`
}

// codeEntry is one protocol frame, hex-encoded.
type codeEntry struct {
	Value string `xml:"VALUE"`
}

// csvDocument is the decrypted payload of both directions. Requests carry
// CONNECT and optionally command codes; responses carry status codes and the
// adapter identity fields.
type csvDocument struct {
	XMLName     xml.Name    `xml:"CSV"`
	Connect     string      `xml:"CONNECT,omitempty"`
	Codes       []codeEntry `xml:"CODE,omitempty"`
	MAC         string      `xml:"MAC,omitempty"`
	Serial      string      `xml:"SERIAL,omitempty"`
	RSSI        string      `xml:"RSSI,omitempty"`
	AppVersion  string      `xml:"APP_VER,omitempty"`
	ProfileCode string      `xml:"PROFILECODE,omitempty"`
	Echonet     string      `xml:"ECHONET,omitempty"`
}

// DeviceStatus is the decoded content of a status response: the raw frames
// plus the identity fields the adapter reports alongside them.
type DeviceStatus struct {
	Frames      [][]byte
	MAC         string
	Serial      string
	RSSI        string
	AppVersion  string
	ProfileCode string
}

func marshalRequest(doc *csvDocument) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal request document: %w", err)
	}
	return body, nil
}

func wrapEnvelope(payload string) ([]byte, error) {
	body, err := xml.Marshal(&requestEnvelope{Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal request envelope: %w", err)
	}
	return append([]byte(xmlHeader), body...), nil
}

func unwrapEnvelope(body []byte) (string, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("parse response envelope: %w", err)
	}
	if env.Payload == "" {
		return "", fmt.Errorf("response envelope carries no payload")
	}
	return env.Payload, nil
}

func parseStatusDocument(payload []byte) (*csvDocument, error) {
	var doc csvDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("parse status document: %w", err)
	}
	return &doc, nil
}
