package protocol

import "fmt"

// GroupRecord is one decoded state group. Implementations store the raw byte
// for every documented field plus the undocumented ranges verbatim, so
// EncodePayload is the exact inverse of the decode that produced the record.
type GroupRecord interface {
	// GroupCode returns the group code byte this record serializes under.
	GroupCode() byte

	// EncodePayload re-serializes the record to its payload bytes
	// (frame bytes 6..N-1). It cannot fail: all fields are stored raw.
	EncodePayload() []byte
}

// groupLayout describes one known payload layout. Adding a group is a table
// entry, not new control flow.
type groupLayout struct {
	name       string
	minPayload int
	decode     func(payload []byte) GroupRecord
}

var groupLayouts = map[byte]groupLayout{
	GroupGeneral:  {name: "General", minPayload: 14, decode: decodeGeneral},
	GroupSensor:   {name: "Sensor", minPayload: 13, decode: decodeSensor},
	GroupError:    {name: "Error", minPayload: 5, decode: decodeError},
	GroupTimer:    {name: "Timer", minPayload: 0, decode: decodeTimer},
	GroupEnergy:   {name: "Energy", minPayload: 6, decode: decodeEnergy},
	GroupAutoMode: {name: "AutoMode", minPayload: 4, decode: decodeAutoMode},
}

// DecodeGroup parses a payload according to its group code. An unrecognized
// code is not an error: the payload is wrapped in an UnknownState so newer
// firmware groups pass through losslessly.
func DecodeGroup(code byte, payload []byte) (GroupRecord, error) {
	layout, ok := groupLayouts[code]
	if !ok {
		return &UnknownState{Code: code, Payload: cloneBytes(payload)}, nil
	}
	if len(payload) < layout.minPayload {
		return nil, fmt.Errorf("%s payload %d bytes, need %d: %w",
			layout.name, len(payload), layout.minPayload, ErrTruncatedFrame)
	}
	return layout.decode(payload), nil
}

// UnknownState preserves a payload whose group code is not in the layout
// table. Forward-compatibility path: stored and re-emitted verbatim.
type UnknownState struct {
	Code    byte
	Payload []byte
}

func (s *UnknownState) GroupCode() byte { return s.Code }

func (s *UnknownState) EncodePayload() []byte { return cloneBytes(s.Payload) }

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
