// Package crypto implements the payload encryption used by the WiFi adapter.
//
// The scheme is AES-128-CBC with an all-zero IV and zero padding. That is
// very weak cryptography, but it is what the device firmware implements; the
// key is a local-network shared secret, not a security boundary.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

const (
	// KeySize is the AES-128 key size. Shorter keys are zero-padded,
	// longer keys truncated, matching the firmware.
	KeySize = 16
	// BlockSize is the AES block size.
	BlockSize = 16
)

// DefaultKey is the encryption key of a factory-fresh adapter that has never
// been registered with the vendor cloud.
const DefaultKey = "unregistered"

// A CryptoError reports a failure to encrypt or decrypt a payload.
type CryptoError struct {
	Op  string // "encrypt" or "decrypt"
	Err error
}

func (e *CryptoError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *CryptoError) Unwrap() error { return e.Err }

// NormalizeKey converts a key string to the fixed AES key the device derives
// from it.
func NormalizeKey(key string) []byte {
	k := make([]byte, KeySize)
	copy(k, key)
	return k
}

// Encrypt encrypts plaintext under the scheme the adapter expects:
// zero-pad to a block multiple, AES-128-CBC, zero IV.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &CryptoError{Op: "encrypt", Err: err}
	}

	paddedLen := (len(plaintext) + BlockSize - 1) / BlockSize * BlockSize
	if paddedLen == 0 {
		paddedLen = BlockSize
	}
	padded := make([]byte, paddedLen)
	copy(padded, plaintext)

	out := make([]byte, paddedLen)
	iv := make([]byte, BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt reverses Encrypt. Trailing padding zeros are stripped; the
// payloads are XML text, which never ends in a NUL.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &CryptoError{Op: "decrypt", Err: err}
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, &CryptoError{Op: "decrypt",
			Err: fmt.Errorf("ciphertext is %d bytes, not a positive multiple of %d", len(ciphertext), BlockSize)}
	}

	out := make([]byte, len(ciphertext))
	iv := make([]byte, BlockSize)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return bytes.TrimRight(out, "\x00"), nil
}

// EncryptEnvelope encrypts a payload and base64-encodes it for the HTTP body
// the adapter accepts.
func EncryptEnvelope(key, plaintext []byte) (string, error) {
	ct, err := Encrypt(key, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptEnvelope decodes and decrypts a base64 payload from an HTTP
// response.
func DecryptEnvelope(key []byte, encoded string) ([]byte, error) {
	ct, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &CryptoError{Op: "decrypt", Err: fmt.Errorf("base64: %w", err)}
	}
	return Decrypt(key, ct)
}
