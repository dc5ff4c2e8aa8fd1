package msgs

import (
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/xbee.go/pkg/framework"
	pb "github.com/robotalks/xbee.go/pkg/proto/xbee/v1"
	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

// TypeID Groups
const (
	GroupXBee   uint32 = 0x00010000
	GroupCustom uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	ReceivedTypeID       uint32 = TypeIDKindEvent | GroupXBee | 0x0001
	SamplesTypeID        uint32 = TypeIDKindEvent | GroupXBee | 0x0002
	NewAddressTypeID     uint32 = TypeIDKindEvent | GroupXBee | 0x0003
	DeliveryStatusTypeID uint32 = TypeIDKindEvent | GroupXBee | 0x0004
	WarningTypeID        uint32 = TypeIDKindEvent | GroupXBee | 0x0005
	RemoteResponseTypeID uint32 = TypeIDKindEvent | GroupXBee | 0x0006
	CommandErrTypeID     uint32 = TypeIDKindEvent | GroupXBee | 0x0100
	TransmitTypeID       uint32 = TypeIDKindCommand | GroupXBee | 0x0001
	RemoteATTypeID       uint32 = TypeIDKindCommand | GroupXBee | 0x0002
)

// CommandMessage is a command to be sent to the radio.
type CommandMessage interface {
	SerializableMessage
	ToCommand() (api.Command, error)
}

// Received event.
type Received struct {
	pb.Received
}

// NewReceived creates a Received.
func NewReceived(src api.Address64, data []byte) *Received {
	return &Received{Received: pb.Received{Source: src.String(), Data: data}}
}

// NewMessage implements Message.
func (m *Received) NewMessage() fx.Message { return &Received{} }

// TypeID implements SerializableMessage.
func (m *Received) TypeID() uint32 { return ReceivedTypeID }

// Serializable implements SerializableMessage.
func (m *Received) Serializable() proto.Message { return &m.Received }

// Samples event. Samples are parsed when possible, raw data is always kept.
type Samples struct {
	pb.Samples
}

// NewSamples creates a Samples.
func NewSamples(src api.Address64, raw []byte) *Samples {
	m := &Samples{Samples: pb.Samples{Source: src.String(), Raw: raw}}
	samples, err := api.ParseIOSamples(raw)
	if err != nil {
		glog.V(2).Infof("samples from %s: %v", src, err)
		return m
	}
	for _, s := range samples {
		sample := &pb.Sample{
			Digital: s.Digital,
			Analog:  make(map[string]uint32, len(s.Analog)),
		}
		for key, val := range s.Analog {
			sample.Analog[key] = uint32(val)
		}
		m.Samples.Samples = append(m.Samples.Samples, sample)
	}
	return m
}

// NewMessage implements Message.
func (m *Samples) NewMessage() fx.Message { return &Samples{} }

// TypeID implements SerializableMessage.
func (m *Samples) TypeID() uint32 { return SamplesTypeID }

// Serializable implements SerializableMessage.
func (m *Samples) Serializable() proto.Message { return &m.Samples }

// NewAddress event.
type NewAddress struct {
	pb.NewAddress
}

// NewAddressOf creates a NewAddress.
func NewAddressOf(addr api.Address64) *NewAddress {
	return &NewAddress{NewAddress: pb.NewAddress{Address: addr.String()}}
}

// NewMessage implements Message.
func (m *NewAddress) NewMessage() fx.Message { return &NewAddress{} }

// TypeID implements SerializableMessage.
func (m *NewAddress) TypeID() uint32 { return NewAddressTypeID }

// Serializable implements SerializableMessage.
func (m *NewAddress) Serializable() proto.Message { return &m.NewAddress }

// DeliveryStatus event.
type DeliveryStatus struct {
	pb.DeliveryStatus
}

// NewDeliveryStatus creates a DeliveryStatus.
func NewDeliveryStatus(dst api.Address16, status byte) *DeliveryStatus {
	return &DeliveryStatus{DeliveryStatus: pb.DeliveryStatus{Destination: dst.String(), Status: uint32(status)}}
}

// NewMessage implements Message.
func (m *DeliveryStatus) NewMessage() fx.Message { return &DeliveryStatus{} }

// TypeID implements SerializableMessage.
func (m *DeliveryStatus) TypeID() uint32 { return DeliveryStatusTypeID }

// Serializable implements SerializableMessage.
func (m *DeliveryStatus) Serializable() proto.Message { return &m.DeliveryStatus }

// Warning event.
type Warning struct {
	pb.Warning
}

// NewWarning creates a Warning.
func NewWarning(message string) *Warning {
	return &Warning{Warning: pb.Warning{Message: message}}
}

// NewMessage implements Message.
func (m *Warning) NewMessage() fx.Message { return &Warning{} }

// TypeID implements SerializableMessage.
func (m *Warning) TypeID() uint32 { return WarningTypeID }

// Serializable implements SerializableMessage.
func (m *Warning) Serializable() proto.Message { return &m.Warning }

// RemoteResponse event.
type RemoteResponse struct {
	pb.RemoteResponse
}

// NewRemoteResponse creates a RemoteResponse.
func NewRemoteResponse(resp *api.RemoteATResponse) *RemoteResponse {
	return &RemoteResponse{RemoteResponse: pb.RemoteResponse{
		Source:  resp.Source.String(),
		Command: resp.Command,
		Status:  uint32(resp.Status),
		Data:    resp.Data,
	}}
}

// NewMessage implements Message.
func (m *RemoteResponse) NewMessage() fx.Message { return &RemoteResponse{} }

// TypeID implements SerializableMessage.
func (m *RemoteResponse) TypeID() uint32 { return RemoteResponseTypeID }

// Serializable implements SerializableMessage.
func (m *RemoteResponse) Serializable() proto.Message { return &m.RemoteResponse }

// CommandErr is the event reporting a command failure.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{CommandErr: pb.CommandErr{Message: err.Error()}}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// Transmit command.
type Transmit struct {
	pb.Transmit
}

// NewTransmit creates a Transmit.
func NewTransmit(dst api.Address64, data []byte) *Transmit {
	return &Transmit{Transmit: pb.Transmit{Destination: dst.String(), Data: data}}
}

// NewMessage implements Message.
func (m *Transmit) NewMessage() fx.Message { return &Transmit{} }

// TypeID implements SerializableMessage.
func (m *Transmit) TypeID() uint32 { return TransmitTypeID }

// Serializable implements SerializableMessage.
func (m *Transmit) Serializable() proto.Message { return &m.Transmit }

// ToCommand implements CommandMessage.
func (m *Transmit) ToCommand() (api.Command, error) {
	dst, err := api.ParseAddress64(m.Destination)
	if err != nil {
		return nil, err
	}
	return api.NewTransmit(dst, m.Data), nil
}

// RemoteAT command.
type RemoteAT struct {
	pb.RemoteAT
}

// NewRemoteAT creates a RemoteAT.
func NewRemoteAT(dst api.Address64, cmd string, param []byte) *RemoteAT {
	return &RemoteAT{RemoteAT: pb.RemoteAT{Destination: dst.String(), Command: cmd, Parameter: param}}
}

// NewMessage implements Message.
func (m *RemoteAT) NewMessage() fx.Message { return &RemoteAT{} }

// TypeID implements SerializableMessage.
func (m *RemoteAT) TypeID() uint32 { return RemoteATTypeID }

// Serializable implements SerializableMessage.
func (m *RemoteAT) Serializable() proto.Message { return &m.RemoteAT }

// ToCommand implements CommandMessage.
func (m *RemoteAT) ToCommand() (api.Command, error) {
	dst, err := api.ParseAddress64(m.Destination)
	if err != nil {
		return nil, err
	}
	return api.NewRemoteAT(dst, m.Command, m.Parameter), nil
}
