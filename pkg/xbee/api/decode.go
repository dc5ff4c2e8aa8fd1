package api

import "fmt"

// Frame is a decoded API frame. The set of implementations is closed:
// *ReceivePacket, *IOSample, *TransmitStatus, *RemoteATRequest,
// *RemoteATResponse, *ModemStatus and *Unknown.
type Frame interface {
	Type() FrameType
	frame()
}

// ReceivePacket is data received from a remote radio.
type ReceivePacket struct {
	FrameType   FrameType
	Source      Address64
	SourceShort Address16
	Options     byte
	Data        []byte

	// Only set for TypeExplicitReceive.
	SourceEndpoint byte
	DestEndpoint   byte
	ClusterID      uint16
	ProfileID      uint16
}

// IOSample carries I/O samples from a remote radio, uninterpreted.
type IOSample struct {
	Source      Address64
	SourceShort Address16
	Options     byte
	Samples     []byte
}

// TransmitStatus reports the delivery of a transmit request.
type TransmitStatus struct {
	FrameID         byte
	Destination     Address16
	Retries         byte
	DeliveryStatus  byte
	DiscoveryStatus byte
}

// RemoteATRequest is a remote AT command embedded in received data.
type RemoteATRequest struct {
	Source      Address64
	Target      Address64
	TargetShort Address16
	FrameID     byte
	Options     byte
	Command     string
	Parameter   []byte
}

// RemoteATResponse is the reply of a remote radio to a remote AT command.
type RemoteATResponse struct {
	FrameID     byte
	Source      Address64
	SourceShort Address16
	Command     string
	Status      byte
	Data        []byte
}

// ModemStatus reports the state of the local radio.
type ModemStatus struct {
	Status byte
}

// Unknown is any frame not recognized.
type Unknown struct {
	Raw RawFrame
}

// Type implements Frame.
func (f *ReceivePacket) Type() FrameType { return f.FrameType }

// Type implements Frame.
func (f *IOSample) Type() FrameType { return TypeIOSample }

// Type implements Frame.
func (f *TransmitStatus) Type() FrameType { return TypeTransmitStatus }

// Type implements Frame. The request is carried by a receive frame.
func (f *RemoteATRequest) Type() FrameType { return TypeRemoteATCommand }

// Type implements Frame.
func (f *RemoteATResponse) Type() FrameType { return TypeRemoteATResponse }

// Type implements Frame.
func (f *ModemStatus) Type() FrameType { return TypeModemStatus }

// Type implements Frame.
func (f *Unknown) Type() FrameType { return f.Raw.Type() }

func (*ReceivePacket) frame()    {}
func (*IOSample) frame()         {}
func (*TransmitStatus) frame()   {}
func (*RemoteATRequest) frame()  {}
func (*RemoteATResponse) frame() {}
func (*ModemStatus) frame()      {}
func (*Unknown) frame()          {}

// Remote AT command constraints for requests embedded in received data.
const (
	// RemoteATMinLength is the minimum declared length of an embedded request.
	RemoteATMinLength = 0x11
	// RemoteATApplyChanges is the only accepted option.
	RemoteATApplyChanges byte = 0x02

	// offsets within the embedded frame (start delimiter at 0).
	remoteATTypeOffset    = 3
	remoteATFrameIDOffset = 4
	remoteATTargetOffset  = 5
	remoteATShortOffset   = 13
	remoteATOptionOffset  = 15
	remoteATCommandOffset = 16
	remoteATParamOffset   = 18
	remoteATParamEnd      = 20
)

// Decode interprets a raw frame. Unrecognized or truncated frames decode as
// *Unknown. An error is only returned for an embedded remote AT command which
// fails validation; the frame must then be dropped.
func Decode(raw RawFrame) (Frame, error) {
	data := raw.Data()
	switch raw.Type() {
	case TypeReceivePacket:
		if len(data) < 11 {
			break
		}
		rx := &ReceivePacket{
			FrameType:   TypeReceivePacket,
			Source:      address64At(data, 0),
			SourceShort: address16At(data, 8),
			Options:     data[10],
			Data:        data[11:],
		}
		return decodeReceived(rx)
	case TypeExplicitReceive:
		if len(data) < 17 {
			break
		}
		rx := &ReceivePacket{
			FrameType:      TypeExplicitReceive,
			Source:         address64At(data, 0),
			SourceShort:    address16At(data, 8),
			SourceEndpoint: data[10],
			DestEndpoint:   data[11],
			ClusterID:      uint16(data[12])<<8 | uint16(data[13]),
			ProfileID:      uint16(data[14])<<8 | uint16(data[15]),
			Options:        data[16],
			Data:           data[17:],
		}
		return decodeReceived(rx)
	case TypeIOSample:
		if len(data) < 11 {
			break
		}
		return &IOSample{
			Source:      address64At(data, 0),
			SourceShort: address16At(data, 8),
			Options:     data[10],
			Samples:     data[11:],
		}, nil
	case TypeTransmitStatus:
		if len(data) < 6 {
			break
		}
		return &TransmitStatus{
			FrameID:         data[0],
			Destination:     address16At(data, 1),
			Retries:         data[3],
			DeliveryStatus:  data[4],
			DiscoveryStatus: data[5],
		}, nil
	case TypeRemoteATResponse:
		if len(data) < 14 {
			break
		}
		return &RemoteATResponse{
			FrameID:     data[0],
			Source:      address64At(data, 1),
			SourceShort: address16At(data, 9),
			Command:     string(data[11:13]),
			Status:      data[13],
			Data:        data[14:],
		}, nil
	case TypeModemStatus:
		if len(data) < 1 {
			break
		}
		return &ModemStatus{Status: data[0]}, nil
	}
	return &Unknown{Raw: raw}, nil
}

func decodeReceived(rx *ReceivePacket) (Frame, error) {
	if len(rx.Data) > remoteATTypeOffset && FrameType(rx.Data[remoteATTypeOffset]) == TypeRemoteATCommand {
		return decodeRemoteAT(rx.Source, rx.Data)
	}
	return rx, nil
}

// decodeRemoteAT decodes a remote AT command frame relayed as received data.
// The embedded frame is un-escaped and starts with its own delimiter and length.
func decodeRemoteAT(src Address64, data []byte) (*RemoteATRequest, error) {
	// big-endian, the same as the outer frame.
	length := int(data[1])<<8 | int(data[2])
	if length < RemoteATMinLength {
		return nil, &DecodeValidationError{Field: "length", Detail: fmt.Sprintf("(%d) is unexpected", length), Raw: data}
	}
	if len(data) < remoteATParamEnd {
		return nil, &DecodeValidationError{Field: "length", Detail: fmt.Sprintf("(%d) exceeds data (%d)", length, len(data)), Raw: data}
	}
	if opt := data[remoteATOptionOffset]; opt != RemoteATApplyChanges {
		return nil, &DecodeValidationError{Field: "option", Detail: fmt.Sprintf("(%d) is unexpected", opt), Raw: data}
	}
	cmd := data[remoteATCommandOffset:remoteATParamOffset]
	if !isASCII(cmd) || (cmd[0] != 'D' && cmd[0] != 'd') {
		return nil, &DecodeValidationError{Field: "command", Detail: fmt.Sprintf("(%q) is unexpected", cmd), Raw: data}
	}
	return &RemoteATRequest{
		Source:      src,
		Target:      address64At(data, remoteATTargetOffset),
		TargetShort: address16At(data, remoteATShortOffset),
		FrameID:     data[remoteATFrameIDOffset],
		Options:     data[remoteATOptionOffset],
		Command:     string(cmd),
		Parameter:   append([]byte(nil), data[remoteATParamOffset:remoteATParamEnd]...),
	}, nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
