package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/robotalks/xbee.go/pkg/framework"
	"github.com/robotalks/xbee.go/pkg/msgs"
	"github.com/robotalks/xbee.go/pkg/xbee/api"
	"github.com/robotalks/xbee.go/pkg/xbee/session"
)

// Event names, published as <node>/event/<name>.
const (
	EventReceived       = "rx"
	EventSamples        = "samples"
	EventNewAddress     = "address"
	EventDeliveryStatus = "status"
	EventWarning        = "warning"
	EventRemoteResponse = "remote"
	EventCommandErr     = "error"
)

// Command names, consumed from <node>/cmd/<name>.
const (
	CommandTransmit = "tx"
	CommandRemoteAT = "remote"
)

// DefaultPubTimeout is the time waiting for a publish to complete.
const DefaultPubTimeout = time.Second

// EventTopic returns the topic of an event from a node.
func EventTopic(node, name string) string {
	return node + "/event/" + name
}

// CommandTopic returns the topic of a command to a node.
func CommandTopic(node, name string) string {
	return node + "/cmd/" + name
}

// MetaTopic returns the topic of the retained metadata of a node.
func MetaTopic(node string) string {
	return node + "/meta"
}

// Publisher publishes a message, Queue implements it.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Meta describes a node, published as retained JSON.
type Meta struct {
	NodeID  string    `json:"node_id"`
	Port    string    `json:"port,omitempty"`
	Version string    `json:"version,omitempty"`
	Started time.Time `json:"started"`
}

// Bridge publishes session events to MQTT and forwards commands received
// from MQTT to the radio. It implements session.Handler and
// session.RemoteResponseHandler.
type Bridge struct {
	Queue      *Queue
	Publisher  Publisher
	Sender     session.Sender
	NodeID     string
	Meta       Meta
	QoS        byte
	PubTimeout time.Duration
}

// NewBridge creates a Bridge over a Queue.
func NewBridge(q *Queue, nodeID string, sender session.Sender) *Bridge {
	return &Bridge{
		Queue:      q,
		Publisher:  q,
		Sender:     sender,
		NodeID:     nodeID,
		Meta:       Meta{NodeID: nodeID},
		PubTimeout: DefaultPubTimeout,
	}
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "mqtt-bridge"
}

// Run subscribes commands and publishes the metadata until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.Queue.Sub(CommandTopic(b.NodeID, "+"), b.HandleCommand)
	defer sub.Close()
	if b.Meta.Started.IsZero() {
		b.Meta.Started = time.Now()
	}
	meta, err := json.Marshal(&b.Meta)
	if err != nil {
		return err
	}
	b.publish(MetaTopic(b.NodeID), meta, true)
	<-ctx.Done()
	b.publish(MetaTopic(b.NodeID), nil, true)
	return ctx.Err()
}

// HandleCommand handles a Typed command received on topic.
func (b *Bridge) HandleCommand(topic string, payload []byte) {
	if err := b.handleCommand(topic, payload); err != nil {
		glog.Errorf("command %s: %v", topic, err)
		b.publishMsg(EventTopic(b.NodeID, EventCommandErr), msgs.NewCommandErr(err))
	}
}

func (b *Bridge) handleCommand(topic string, payload []byte) error {
	msg, err := msgs.DecodeMessage(payload)
	if err != nil {
		return err
	}
	cmdMsg, ok := msg.(msgs.CommandMessage)
	if !ok {
		return fmt.Errorf("not a command: %T", msg)
	}
	if name := topic[strings.LastIndex(topic, "/")+1:]; name != commandName(cmdMsg) {
		return fmt.Errorf("unexpected command %T on %q", msg, name)
	}
	cmd, err := cmdMsg.ToCommand()
	if err != nil {
		return err
	}
	if b.Sender == nil {
		return session.ErrNoSender
	}
	return b.Sender.Send(cmd)
}

func commandName(msg msgs.CommandMessage) string {
	switch msg.(type) {
	case *msgs.Transmit:
		return CommandTransmit
	case *msgs.RemoteAT:
		return CommandRemoteAT
	}
	return ""
}

// OnReceive implements session.Handler.
func (b *Bridge) OnReceive(ctx context.Context, src api.Address64, data []byte) {
	b.publishMsg(EventTopic(b.NodeID, EventReceived), msgs.NewReceived(src, data))
}

// OnSamples implements session.Handler.
func (b *Bridge) OnSamples(ctx context.Context, src api.Address64, samples []byte) {
	b.publishMsg(EventTopic(b.NodeID, EventSamples), msgs.NewSamples(src, samples))
}

// OnNewAddress implements session.Handler.
func (b *Bridge) OnNewAddress(ctx context.Context, addr api.Address64) {
	b.publishMsg(EventTopic(b.NodeID, EventNewAddress), msgs.NewAddressOf(addr))
}

// OnStatus implements session.Handler.
func (b *Bridge) OnStatus(ctx context.Context, dst api.Address16, status byte) {
	b.publishMsg(EventTopic(b.NodeID, EventDeliveryStatus), msgs.NewDeliveryStatus(dst, status))
}

// OnWarning implements session.Handler.
func (b *Bridge) OnWarning(ctx context.Context, msg string) {
	b.publishMsg(EventTopic(b.NodeID, EventWarning), msgs.NewWarning(msg))
}

// OnRemoteResponse implements session.RemoteResponseHandler.
func (b *Bridge) OnRemoteResponse(ctx context.Context, resp *api.RemoteATResponse) {
	b.publishMsg(EventTopic(b.NodeID, EventRemoteResponse), msgs.NewRemoteResponse(resp))
}

func (b *Bridge) publishMsg(topic string, msg fx.Message) {
	payload, err := msgs.Encode(msg)
	if err != nil {
		glog.Errorf("encode %T: %v", msg, err)
		return
	}
	b.publish(topic, payload, false)
}

func (b *Bridge) publish(topic string, payload []byte, retain bool) {
	pub := b.Publisher
	if pub == nil {
		pub = b.Queue
	}
	token := pub.Publish(topic, payload, b.QoS, retain)
	timeout := b.PubTimeout
	if timeout <= 0 {
		timeout = DefaultPubTimeout
	}
	if !token.WaitTimeout(timeout) {
		glog.Warningf("publish %s timeout", topic)
	} else if err := token.Error(); err != nil {
		glog.Errorf("publish %s: %v", topic, err)
	}
}
