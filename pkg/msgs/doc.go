// Package msgs defines the messages exchanged with an xbee daemon over MQTT.
//
// Every message travels as a Typed envelope: a type ID and the protobuf
// encoded message. Events are published by the daemon, commands are
// consumed by it.
package msgs
