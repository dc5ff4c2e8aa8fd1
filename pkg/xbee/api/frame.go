package api

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// FrameType is the API identifier carried in the first byte of a frame.
type FrameType byte

// ZigBee API frame types.
const (
	TypeATCommand        FrameType = 0x08
	TypeTransmitRequest  FrameType = 0x10
	TypeRemoteATCommand  FrameType = 0x17
	TypeATResponse       FrameType = 0x88
	TypeModemStatus      FrameType = 0x8A
	TypeTransmitStatus   FrameType = 0x8B
	TypeReceivePacket    FrameType = 0x90
	TypeExplicitReceive  FrameType = 0x91
	TypeIOSample         FrameType = 0x92
	TypeRemoteATResponse FrameType = 0x97
)

// String returns a short name of the frame type.
func (t FrameType) String() string {
	switch t {
	case TypeATCommand:
		return "at"
	case TypeTransmitRequest:
		return "tx"
	case TypeRemoteATCommand:
		return "remote_at"
	case TypeATResponse:
		return "at_response"
	case TypeModemStatus:
		return "status"
	case TypeTransmitStatus:
		return "tx_status"
	case TypeReceivePacket:
		return "rx"
	case TypeExplicitReceive:
		return "rx_explicit"
	case TypeIOSample:
		return "rx_io_data_long_addr"
	case TypeRemoteATResponse:
		return "remote_at_response"
	default:
		return fmt.Sprintf("0x%02x", byte(t))
	}
}

// Address64 is the 64-bit long address of a radio.
type Address64 [8]byte

// Address16 is the 16-bit network (short) address of a radio.
type Address16 [2]byte

// Well-known addresses.
var (
	// AddressCoordinator addresses the network coordinator.
	AddressCoordinator = Address64{}
	// AddressBroadcast addresses all radios in the network.
	AddressBroadcast = Address64{0, 0, 0, 0, 0, 0, 0xff, 0xff}
	// ShortAddressUnknown is used when only the long address is known.
	ShortAddressUnknown = Address16{0xff, 0xfe}
)

// String returns the address in hex.
func (a Address64) String() string {
	return hex.EncodeToString(a[:])
}

// String returns the address in hex.
func (a Address16) String() string {
	return hex.EncodeToString(a[:])
}

// ParseAddress64 parses 16 hex digits, optionally prefixed by 0x and
// separated by colons.
func ParseAddress64(s string) (a Address64, err error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	s = strings.Replace(s, ":", "", -1)
	if len(s) != 16 {
		return a, fmt.Errorf("invalid address %q: 16 hex digits expected", s)
	}
	if _, err = hex.Decode(a[:], []byte(s)); err != nil {
		return a, fmt.Errorf("invalid address %q: %v", s, err)
	}
	return a, nil
}

func address64At(b []byte, offset int) (a Address64) {
	copy(a[:], b[offset:offset+len(a)])
	return
}

func address16At(b []byte, offset int) (a Address16) {
	copy(a[:], b[offset:offset+len(a)])
	return
}

// RawFrame is the un-escaped content between the length field and the
// checksum: the frame type followed by frame data.
type RawFrame []byte

// Type returns the frame type. An empty frame reports type 0.
func (f RawFrame) Type() FrameType {
	if len(f) == 0 {
		return 0
	}
	return FrameType(f[0])
}

// Data returns the bytes following the frame type.
func (f RawFrame) Data() []byte {
	if len(f) == 0 {
		return nil
	}
	return f[1:]
}
