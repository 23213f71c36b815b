package transport

import "fmt"

// ErrorType represents the category of a device communication failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication failure on the admin interface
	ErrTypeAuth
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed envelope or status document
	ErrTypeParse
	// ErrTypeCrypto indicates a payload that would not decrypt (usually a wrong key)
	ErrTypeCrypto
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeCrypto:
		return "Crypto Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred talking to the adapter
type DeviceError struct {
	Type       ErrorType
	Message    string
	StatusCode int   // HTTP status code (if applicable)
	Err        error // Underlying error (if any)
	Host       string
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

func (c *Client) deviceErr(t ErrorType, msg string, err error) *DeviceError {
	return &DeviceError{Type: t, Message: msg, Err: err, Host: c.Host}
}
