package session

import "errors"

var (
	// ErrNoSender indicates a command must be sent but no Sender is set.
	ErrNoSender = errors.New("no sender")
	// ErrNotConnected indicates the Conn has no ReadWriter.
	ErrNotConnected = errors.New("not connected")
)
