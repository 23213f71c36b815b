package protocol

// Checksum computes the frame check byte over body, the frame bytes between
// the magic byte and the checksum position (frame[1:N-1]).
//
// The formula is the two's-complement of the byte sum: appending the checksum
// makes the body-plus-checksum sum to zero mod 256. Verified against captured
// device frames; note that the magic byte is NOT covered.
func Checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	return byte(0x100 - uint16(sum))
}

// ValidateChecksum reports whether a complete frame carries a correct trailing
// checksum. It never fails for structural reasons: anything too short to carry
// a checksum is simply invalid.
func ValidateChecksum(frame []byte) bool {
	if len(frame) < MinFrameSize {
		return false
	}
	return Checksum(frame[1:len(frame)-1]) == frame[len(frame)-1]
}
