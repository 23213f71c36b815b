package protocol

import "fmt"

// Frame is one complete protocol message. Decoding keeps the transfer mode
// and static prefix exactly as received so an unmodified frame re-encodes to
// the original bytes, checksum included.
type Frame struct {
	TransferMode byte
	StaticPrefix [3]byte
	Record       GroupRecord
}

// GroupCode returns the group code of the frame's record.
func (f *Frame) GroupCode() byte { return f.Record.GroupCode() }

// DecodeFrame parses and validates a complete raw frame.
//
// Checks run cheapest first: length, magic, checksum, then group dispatch.
// Any failure leaves the caller's state untouched; a frame that fails the
// checksum must be discarded, not retried here.
func DecodeFrame(raw []byte) (*Frame, error) {
	if len(raw) < MinFrameSize {
		return nil, fmt.Errorf("frame %d bytes, need %d: %w", len(raw), MinFrameSize, ErrTruncatedFrame)
	}
	if raw[0] != FrameMagic {
		return nil, fmt.Errorf("frame starts 0x%02x, want 0x%02x: %w", raw[0], FrameMagic, ErrBadMagic)
	}
	if want := Checksum(raw[1 : len(raw)-1]); want != raw[len(raw)-1] {
		return nil, &ChecksumError{Want: want, Got: raw[len(raw)-1]}
	}

	record, err := DecodeGroup(raw[5], raw[6:len(raw)-1])
	if err != nil {
		return nil, err
	}

	f := &Frame{
		TransferMode: raw[1],
		Record:       record,
	}
	copy(f.StaticPrefix[:], raw[2:5])
	return f, nil
}

// Encode serializes the frame back to wire bytes, appending the checksum.
func (f *Frame) Encode() []byte {
	payload := f.Record.EncodePayload()
	raw := make([]byte, 0, 6+len(payload)+1)
	raw = append(raw, FrameMagic, f.TransferMode)
	raw = append(raw, f.StaticPrefix[:]...)
	raw = append(raw, f.Record.GroupCode())
	raw = append(raw, payload...)
	return append(raw, Checksum(raw[1:]))
}

// EncodeFrame serializes a record under the default static prefix. This is
// the path for frames the client originates; decoded frames should be
// re-encoded through (*Frame).Encode to keep their original prefix.
func EncodeFrame(transferMode byte, record GroupRecord) []byte {
	f := &Frame{TransferMode: transferMode, StaticPrefix: DefaultStaticPrefix, Record: record}
	return f.Encode()
}
