package api

import "fmt"

// FramingReason classifies a FramingError.
type FramingReason int

const (
	// ReasonChecksum means the checksum byte doesn't match the payload.
	ReasonChecksum FramingReason = iota
	// ReasonOverrun means the declared length exceeds the limit.
	ReasonOverrun
	// ReasonRestart means a start delimiter arrived in the middle of a frame.
	ReasonRestart
)

// String implements fmt.Stringer.
func (r FramingReason) String() string {
	switch r {
	case ReasonChecksum:
		return "checksum"
	case ReasonOverrun:
		return "overrun"
	case ReasonRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// FramingError is reported when the assembler drops a frame.
type FramingError struct {
	Reason FramingReason
	Detail string
}

// Error implements error.
func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error (%s): %s", e.Reason, e.Detail)
}

// DecodeValidationError is reported when a frame fails the stricter checks
// of a sub-protocol. The frame must be dropped.
type DecodeValidationError struct {
	Field  string
	Detail string
	Raw    []byte
}

// Error implements error.
func (e *DecodeValidationError) Error() string {
	return fmt.Sprintf("remote_at %s %s: % x", e.Field, e.Detail, e.Raw)
}

// EncodeError is reported when a Command can't be encoded.
type EncodeError struct {
	Detail string
}

// Error implements error.
func (e *EncodeError) Error() string {
	return "encode error: " + e.Detail
}
