package wire

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame reports a physical frame too short to carry the 3-byte
// length and 1-byte sequence id header. The frame buffer is released before
// the error surfaces; no ownership transfers on this path.
var ErrMalformedFrame = errors.New("malformed frame: header requires at least 4 bytes")

// ProtocolError reports a server payload whose header, size and phase match
// no known message shape. It is not transient: the session is
// desynchronized and the connection should be torn down.
type ProtocolError struct {
	Header        byte
	Phase         string
	ReadableBytes int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unknown message header 0x%x and readable bytes is %d on %s phase", e.Header, e.ReadableBytes, e.Phase)
}

// AccessDeniedError classifies an unrecognized login-phase response as an
// authentication failure rather than a generic protocol violation, since a
// rejected or protocol-incompatible login is the overwhelmingly likely
// cause there.
type AccessDeniedError struct {
	Header        byte
	ReadableBytes int
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: unknown message header 0x%x and readable bytes is %d on connection phase", e.Header, e.ReadableBytes)
}
