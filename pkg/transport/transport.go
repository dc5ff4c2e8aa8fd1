// Package transport opens the byte stream to a radio.
//
// A radio is addressed by URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	/dev/ttyUSB0                        (same as above)
//	tcp://host:port                     (e.g. a ser2net bridge)
//	ws://host:port/path                 (binary websocket frames)
package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaudRate is the baud rate used when not specified.
const DefaultBaudRate = 115200

// Scheme names.
const (
	SchemeSerial          = "serial"
	SchemeTCP             = "tcp"
	SchemeWebSocket       = "ws"
	SchemeWebSocketSecure = "wss"
)

// Endpoint is a parsed transport URL.
type Endpoint struct {
	Scheme   string
	Address  string
	BaudRate int
}

// String implements fmt.Stringer.
func (e *Endpoint) String() string {
	switch e.Scheme {
	case SchemeSerial:
		return fmt.Sprintf("serial://%s?baud=%d", e.Address, e.BaudRate)
	case SchemeWebSocket, SchemeWebSocketSecure:
		return e.Address
	default:
		return e.Scheme + "://" + e.Address
	}
}

// Options customizes how an Endpoint is opened.
type Options struct {
	// BaudRate is used when the URL doesn't specify one.
	BaudRate int
	// DialTimeout applies to tcp endpoints.
	DialTimeout time.Duration
	// ReadTimeout applies to serial ports. Zero blocks until data arrives.
	ReadTimeout time.Duration
}

// ParseURL parses a transport URL. A URL without scheme is a serial port.
func ParseURL(rawURL string, opts Options) (*Endpoint, error) {
	baud := opts.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	if !strings.Contains(rawURL, "://") {
		if rawURL == "" {
			return nil, fmt.Errorf("empty transport URL")
		}
		return &Endpoint{Scheme: SchemeSerial, Address: rawURL, BaudRate: baud}, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport URL %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case SchemeSerial:
		addr := u.Path
		if u.Host != "" {
			// serial://COM3
			addr = u.Host + u.Path
		}
		if addr == "" {
			return nil, fmt.Errorf("invalid transport URL %q: missing port", rawURL)
		}
		if val := u.Query().Get("baud"); val != "" {
			if baud, err = strconv.Atoi(val); err != nil || baud <= 0 {
				return nil, fmt.Errorf("invalid baud rate %q", val)
			}
		}
		return &Endpoint{Scheme: SchemeSerial, Address: addr, BaudRate: baud}, nil
	case SchemeTCP:
		if _, _, err = net.SplitHostPort(u.Host); err != nil {
			return nil, fmt.Errorf("invalid transport URL %q: %w", rawURL, err)
		}
		return &Endpoint{Scheme: SchemeTCP, Address: u.Host}, nil
	case SchemeWebSocket, SchemeWebSocketSecure:
		if u.Host == "" {
			return nil, fmt.Errorf("invalid transport URL %q: missing host", rawURL)
		}
		return &Endpoint{Scheme: u.Scheme, Address: u.String()}, nil
	default:
		return nil, fmt.Errorf("unknown transport URL scheme: %q", u.Scheme)
	}
}

// Open parses rawURL and opens the endpoint.
func Open(rawURL string, opts Options) (io.ReadWriteCloser, error) {
	ep, err := ParseURL(rawURL, opts)
	if err != nil {
		return nil, err
	}
	return ep.Open(opts)
}

// Open opens the endpoint.
func (e *Endpoint) Open(opts Options) (io.ReadWriteCloser, error) {
	switch e.Scheme {
	case SchemeSerial:
		return OpenSerial(e.Address, e.BaudRate, opts.ReadTimeout)
	case SchemeTCP:
		if opts.DialTimeout > 0 {
			return net.DialTimeout("tcp", e.Address, opts.DialTimeout)
		}
		return net.Dial("tcp", e.Address)
	case SchemeWebSocket, SchemeWebSocketSecure:
		return DialWebSocket(e.Address)
	default:
		return nil, fmt.Errorf("unknown transport scheme: %q", e.Scheme)
	}
}
