package api

import "errors"

// Reserved bytes in API mode 2.
const (
	StartDelimiter byte = 0x7E
	Escape         byte = 0x7D
	XON            byte = 0x11
	XOFF           byte = 0x13

	// EscapeXor is applied to a reserved byte following Escape.
	EscapeXor byte = 0x20
)

// ErrTrailingEscape indicates the data ends in the middle of an escape pair.
var ErrTrailingEscape = errors.New("trailing escape byte")

// IsReserved checks if b must be escaped on the wire.
func IsReserved(b byte) bool {
	switch b {
	case StartDelimiter, Escape, XON, XOFF:
		return true
	}
	return false
}

// EscapeBytes escapes all reserved bytes in data.
func EscapeBytes(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8)
	for _, b := range data {
		if IsReserved(b) {
			out = append(out, Escape, b^EscapeXor)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// UnescapeBytes reverses EscapeBytes.
func UnescapeBytes(data []byte) ([]byte, error) {
	var u Unescaper
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if v, ok := u.Unescape(b); ok {
			out = append(out, v)
		}
	}
	if u.Pending() {
		return out, ErrTrailingEscape
	}
	return out, nil
}

// Unescaper unescapes a byte stream incrementally. The zero value is ready
// to use, and an escape pair may be split across calls.
type Unescaper struct {
	escaped bool
}

// Unescape consumes one wire byte. ok is false when b is the first half of
// an escape pair and no output byte is available yet.
func (u *Unescaper) Unescape(b byte) (out byte, ok bool) {
	if u.escaped {
		u.escaped = false
		return b ^ EscapeXor, true
	}
	if b == Escape {
		u.escaped = true
		return 0, false
	}
	return b, true
}

// Pending indicates an escape byte has been consumed without its pair.
func (u *Unescaper) Pending() bool {
	return u.escaped
}

// Reset drops a pending escape.
func (u *Unescaper) Reset() {
	u.escaped = false
}
