// Package v1 contains the wire messages defined in xbee.proto.
package v1

import (
	proto "github.com/golang/protobuf/proto"
)

// Typed wraps an encoded message with its type ID.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message  []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	Sequence uint32 `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

// Received is data received from a remote radio.
type Received struct {
	Source string `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Data   []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *Received) Reset()         { *m = Received{} }
func (m *Received) String() string { return proto.CompactTextString(m) }
func (*Received) ProtoMessage()    {}

// Sample is one set of I/O readings.
type Sample struct {
	Digital map[string]bool   `protobuf:"bytes,1,rep,name=digital,proto3" json:"digital,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	Analog  map[string]uint32 `protobuf:"bytes,2,rep,name=analog,proto3" json:"analog,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
}

func (m *Sample) Reset()         { *m = Sample{} }
func (m *Sample) String() string { return proto.CompactTextString(m) }
func (*Sample) ProtoMessage()    {}

// Samples carries I/O samples from a remote radio.
type Samples struct {
	Source  string    `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Raw     []byte    `protobuf:"bytes,2,opt,name=raw,proto3" json:"raw,omitempty"`
	Samples []*Sample `protobuf:"bytes,3,rep,name=samples,proto3" json:"samples,omitempty"`
}

func (m *Samples) Reset()         { *m = Samples{} }
func (m *Samples) String() string { return proto.CompactTextString(m) }
func (*Samples) ProtoMessage()    {}

// NewAddress reports a source address seen for the first time.
type NewAddress struct {
	Address string `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *NewAddress) Reset()         { *m = NewAddress{} }
func (m *NewAddress) String() string { return proto.CompactTextString(m) }
func (*NewAddress) ProtoMessage()    {}

// DeliveryStatus reports the delivery status of a transmit request.
type DeliveryStatus struct {
	Destination string `protobuf:"bytes,1,opt,name=destination,proto3" json:"destination,omitempty"`
	Status      uint32 `protobuf:"varint,2,opt,name=status,proto3" json:"status,omitempty"`
}

func (m *DeliveryStatus) Reset()         { *m = DeliveryStatus{} }
func (m *DeliveryStatus) String() string { return proto.CompactTextString(m) }
func (*DeliveryStatus) ProtoMessage()    {}

// Warning reports frames which are dropped or not understood.
type Warning struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Warning) Reset()         { *m = Warning{} }
func (m *Warning) String() string { return proto.CompactTextString(m) }
func (*Warning) ProtoMessage()    {}

// RemoteResponse is the reply to a remote AT command.
type RemoteResponse struct {
	Source  string `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Command string `protobuf:"bytes,2,opt,name=command,proto3" json:"command,omitempty"`
	Status  uint32 `protobuf:"varint,3,opt,name=status,proto3" json:"status,omitempty"`
	Data    []byte `protobuf:"bytes,4,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *RemoteResponse) Reset()         { *m = RemoteResponse{} }
func (m *RemoteResponse) String() string { return proto.CompactTextString(m) }
func (*RemoteResponse) ProtoMessage()    {}

// Transmit requests data to be sent to a remote radio.
type Transmit struct {
	Destination string `protobuf:"bytes,1,opt,name=destination,proto3" json:"destination,omitempty"`
	Data        []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *Transmit) Reset()         { *m = Transmit{} }
func (m *Transmit) String() string { return proto.CompactTextString(m) }
func (*Transmit) ProtoMessage()    {}

// RemoteAT sends an AT command to a remote radio.
type RemoteAT struct {
	Destination string `protobuf:"bytes,1,opt,name=destination,proto3" json:"destination,omitempty"`
	Command     string `protobuf:"bytes,2,opt,name=command,proto3" json:"command,omitempty"`
	Parameter   []byte `protobuf:"bytes,3,opt,name=parameter,proto3" json:"parameter,omitempty"`
}

func (m *RemoteAT) Reset()         { *m = RemoteAT{} }
func (m *RemoteAT) String() string { return proto.CompactTextString(m) }
func (*RemoteAT) ProtoMessage()    {}

// CommandErr reports a command which failed.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErr) Reset()         { *m = CommandErr{} }
func (m *CommandErr) String() string { return proto.CompactTextString(m) }
func (*CommandErr) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Typed)(nil), "xbee.v1.Typed")
	proto.RegisterType((*Received)(nil), "xbee.v1.Received")
	proto.RegisterType((*Sample)(nil), "xbee.v1.Sample")
	proto.RegisterType((*Samples)(nil), "xbee.v1.Samples")
	proto.RegisterType((*NewAddress)(nil), "xbee.v1.NewAddress")
	proto.RegisterType((*DeliveryStatus)(nil), "xbee.v1.DeliveryStatus")
	proto.RegisterType((*Warning)(nil), "xbee.v1.Warning")
	proto.RegisterType((*RemoteResponse)(nil), "xbee.v1.RemoteResponse")
	proto.RegisterType((*Transmit)(nil), "xbee.v1.Transmit")
	proto.RegisterType((*RemoteAT)(nil), "xbee.v1.RemoteAT")
	proto.RegisterType((*CommandErr)(nil), "xbee.v1.CommandErr")
}
