package api

import (
	"fmt"
	"io"
)

// MaxPayloadLength is the largest payload Encode accepts, so that every
// encoded frame is accepted by a default Assembler.
const MaxPayloadLength = DefaultMaxFrameLength

// Command is an outbound frame. Implementations: *Transmit and *RemoteAT.
type Command interface {
	// Payload builds the un-escaped frame content, type byte first.
	Payload() ([]byte, error)
	command()
}

// Transmit requests data to be sent to a remote radio.
type Transmit struct {
	FrameID          byte
	Destination      Address64
	DestinationShort Address16
	Radius           byte
	Options          byte
	Data             []byte
}

// NewTransmit creates a Transmit with the radio defaults: unknown short
// address and frame id 0. Set FrameID to get a TransmitStatus back.
func NewTransmit(dst Address64, data []byte) *Transmit {
	return &Transmit{
		Destination:      dst,
		DestinationShort: ShortAddressUnknown,
		Data:             data,
	}
}

// Payload implements Command.
func (c *Transmit) Payload() ([]byte, error) {
	p := make([]byte, 0, 14+len(c.Data))
	p = append(p, byte(TypeTransmitRequest), c.FrameID)
	p = append(p, c.Destination[:]...)
	p = append(p, c.DestinationShort[:]...)
	p = append(p, c.Radius, c.Options)
	p = append(p, c.Data...)
	return p, nil
}

// RemoteAT sends an AT command to a remote radio. Changes are always
// applied immediately.
type RemoteAT struct {
	FrameID          byte
	Destination      Address64
	DestinationShort Address16
	Command          string
	Parameter        []byte
}

// NewRemoteAT creates a RemoteAT with the radio defaults.
func NewRemoteAT(dst Address64, cmd string, param []byte) *RemoteAT {
	return &RemoteAT{
		Destination:      dst,
		DestinationShort: ShortAddressUnknown,
		Command:          cmd,
		Parameter:        param,
	}
}

// Payload implements Command.
func (c *RemoteAT) Payload() ([]byte, error) {
	if len(c.Command) != 2 || !isASCII([]byte(c.Command)) {
		return nil, &EncodeError{Detail: fmt.Sprintf("AT command %q must be 2 ASCII characters", c.Command)}
	}
	p := make([]byte, 0, 15+len(c.Parameter))
	p = append(p, byte(TypeRemoteATCommand), c.FrameID)
	p = append(p, c.Destination[:]...)
	p = append(p, c.DestinationShort[:]...)
	p = append(p, RemoteATApplyChanges)
	p = append(p, c.Command...)
	p = append(p, c.Parameter...)
	return p, nil
}

func (*Transmit) command() {}
func (*RemoteAT) command() {}

// Checksum calculates the checksum of an un-escaped payload.
func Checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return 0xff - sum
}

// Encode builds the wire bytes of a command.
func Encode(cmd Command) ([]byte, error) {
	payload, err := cmd.Payload()
	if err != nil {
		return nil, err
	}
	return EncodeRaw(payload)
}

// EncodeRaw wraps an un-escaped payload into a frame: start delimiter,
// length, payload and checksum, all escaped after the delimiter.
func EncodeRaw(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLength {
		return nil, &EncodeError{Detail: fmt.Sprintf("payload too large: %d bytes", len(payload))}
	}
	body := make([]byte, 0, len(payload)+3)
	body = append(body, byte(len(payload)>>8), byte(len(payload)))
	body = append(body, payload...)
	body = append(body, Checksum(payload))
	return append([]byte{StartDelimiter}, EscapeBytes(body)...), nil
}

// WriteCommand encodes cmd and writes the frame in a single Write.
func WriteCommand(w io.Writer, cmd Command) (n int, err error) {
	frame, err := Encode(cmd)
	if err != nil {
		return 0, err
	}
	return w.Write(frame)
}
