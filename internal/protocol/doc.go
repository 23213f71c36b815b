// Package protocol implements the binary frame codec for the Mitsubishi
// MAC-577IF-2E Wi-Fi adapter family.
//
// The device exchanges fixed-layout frames of the form
//
//	[0]     0xfc          magic
//	[1]     transfer mode (request/response/write)
//	[2-4]   01 30 10      static prefix
//	[5]     group code    selects the payload layout
//	[6..N-1] payload      group specific
//	[N]     checksum      two's-complement byte sum over bytes 1..N-1
//
// Inbound frames decode into typed state records (general, sensor, error,
// timer, energy, auto mode). Byte ranges whose meaning has not been reverse
// engineered are preserved verbatim in each record so that re-encoding an
// unmodified record reproduces the original frame bit for bit. Frames with a
// group code outside the known set decode to UnknownState rather than failing;
// the firmware grows new groups over time and dropping them would lose data.
//
// The package is purely transformational: no I/O, no logging, no shared
// mutable state. Decode and Encode are safe for concurrent use. Encryption of
// the transport envelope lives in the crypto package; HTTP session handling in
// the transport package.
package protocol
