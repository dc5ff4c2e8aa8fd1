// Package api provides XBee API mode 2 frame support.
package api

// API frames are exchanged with the radio over a serial link:
//
//	START(0x7E) | LENGTH(2, big-endian) | TYPE(1) + DATA(LENGTH-1) | CHECKSUM(1)
//
// Every byte after START is escaped in mode 2, so a raw 0x7E on the wire
// always marks the beginning of a frame. The Assembler consumes the raw
// byte stream one byte at a time and yields RawFrames; Decode maps a
// RawFrame into one of the Frame variants; Encode builds outbound frames
// from Commands.
