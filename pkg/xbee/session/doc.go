// Package session drives an XBee radio in API mode over an io.ReadWriter.
//
// Conn reads the byte stream in arrival order, assembles and decodes frames
// and hands every decoded frame to a Dispatcher before the next frame is
// assembled. The Dispatcher tracks the addresses seen so far, re-issues
// remote AT commands relayed inside received data and forwards everything
// else to a Handler, optionally through a Queue of worker goroutines.
// Writes to the radio are serialized by Conn.
package session
