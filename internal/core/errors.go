// Package core defines sentinel errors.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors, wrapped with %w by callers.
var (
	// Construction errors
	ErrInvalidFieldWidth = errors.New("pktcraft: invalid field width")
	ErrUnsupportedProto  = errors.New("pktcraft: unsupported protocol")

	// Transmission errors
	ErrTransmissionFailure = errors.New("pktcraft: transmission failure")
	ErrTransmitterNotFound = errors.New("pktcraft: transmitter not found")
	ErrTransmitterClosed   = errors.New("pktcraft: transmitter closed")

	// Decoding errors
	ErrPacketTooShort  = errors.New("pktcraft: packet too short")
	ErrMalformedHeader = errors.New("pktcraft: malformed header")

	// Configuration errors
	ErrConfigInvalid = errors.New("pktcraft: invalid configuration")
)

// FieldWidthError reports a value that does not fit its declared wire width.
type FieldWidthError struct {
	Field string
	Bits  int
	Value any
}

func (e *FieldWidthError) Error() string {
	switch v := e.Value.(type) {
	case []byte:
		return fmt.Sprintf("%s: field %q needs %d bytes, got %d", ErrInvalidFieldWidth, e.Field, e.Bits/8, len(v))
	default:
		return fmt.Sprintf("%s: field %q value %v exceeds %d bits", ErrInvalidFieldWidth, e.Field, e.Value, e.Bits)
	}
}

func (e *FieldWidthError) Unwrap() error { return ErrInvalidFieldWidth }
