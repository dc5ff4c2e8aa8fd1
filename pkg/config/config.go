// Package config provides the configuration of an xbee daemon.
//
// Values come from, in increasing precedence: built-in defaults,
// environment variables, a TOML file and command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/xbee.go/pkg/transport"
	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

// Config provides common options of an xbee daemon.
type Config struct {
	// Port is the transport URL of the radio, see package transport.
	Port string
	// Baud is the baud rate when Port is a serial port.
	Baud int
	// ReadTimeout applies to serial ports. Zero blocks reads until data arrives.
	ReadTimeout time.Duration
	// MQTTURL is the broker to bridge events and commands. Empty disables it.
	// e.g. mqtt://host:port/topic-prefix/
	MQTTURL string
	// NodeID identifies this radio gateway on MQTT.
	NodeID string
	// Workers is the number of goroutines running handlers. Zero runs them
	// on the reading goroutine.
	Workers int
	// MaxFrameLength limits the declared length of received frames.
	MaxFrameLength int
}

// Names of flags, also used as keys of the file.
const (
	FlagPort           = "port"
	FlagBaud           = "baud"
	FlagReadTimeout    = "read-timeout"
	FlagMQTT           = "mqtt"
	FlagNodeID         = "node-id"
	FlagWorkers        = "workers"
	FlagMaxFrameLength = "max-frame-length"
)

var defaultConfig = Config{
	Port:           "/dev/ttyUSB0",
	Baud:           transport.DefaultBaudRate,
	Workers:        4,
	MaxFrameLength: api.DefaultMaxFrameLength,
}

func init() {
	if val := os.Getenv("XBEE_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("XBEE_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		} else {
			glog.Warningf("ignore invalid XBEE_BAUD %q", val)
		}
	}
	if val := os.Getenv("XBEE_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("XBEE_NODE_ID"); val != "" {
		defaultConfig.NodeID = val
	}
}

// SetupFlags sets up command line flags bound to c.
func (c *Config) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Port, FlagPort, c.Port, "Radio transport URL: serial port, tcp://host:port or ws://host/path.")
	fs.IntVar(&c.Baud, FlagBaud, c.Baud, "Baud rate of serial port.")
	fs.DurationVar(&c.ReadTimeout, FlagReadTimeout, c.ReadTimeout, "Read timeout of serial port.")
	fs.StringVar(&c.MQTTURL, FlagMQTT, c.MQTTURL, "MQTT broker URL, empty to disable.")
	fs.StringVar(&c.NodeID, FlagNodeID, c.NodeID, "Node ID on MQTT, default to machine ID.")
	fs.IntVar(&c.Workers, FlagWorkers, c.Workers, "Number of handler workers.")
	fs.IntVar(&c.MaxFrameLength, FlagMaxFrameLength, c.MaxFrameLength, "Max length of received frames.")
}

// SetupFlags sets up command line flags bound to the default config.
func SetupFlags(fs *flag.FlagSet) {
	defaultConfig.SetupFlags(fs)
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

type fileConfig struct {
	Port           string `toml:"port"`
	Baud           int    `toml:"baud"`
	ReadTimeout    string `toml:"read_timeout"`
	MQTT           string `toml:"mqtt"`
	NodeID         string `toml:"node_id"`
	Workers        int    `toml:"workers"`
	MaxFrameLength int    `toml:"max_frame_length"`
}

// LoadFile overrides c with the keys defined in a TOML file. Keys whose
// flag is reported by keep are left unchanged, so explicit flags win.
func (c *Config) LoadFile(path string, keep func(flagName string) bool) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		glog.Warningf("unknown config keys in %s: %v", path, undecoded)
	}
	defined := func(key, flagName string) bool {
		return meta.IsDefined(key) && (keep == nil || !keep(flagName))
	}
	if defined("port", FlagPort) {
		c.Port = strings.TrimSpace(raw.Port)
	}
	if defined("baud", FlagBaud) {
		c.Baud = raw.Baud
	}
	if defined("read_timeout", FlagReadTimeout) {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return fmt.Errorf("parse read_timeout: %w", err)
		}
		c.ReadTimeout = d
	}
	if defined("mqtt", FlagMQTT) {
		c.MQTTURL = strings.TrimSpace(raw.MQTT)
	}
	if defined("node_id", FlagNodeID) {
		c.NodeID = strings.TrimSpace(raw.NodeID)
	}
	if defined("workers", FlagWorkers) {
		c.Workers = raw.Workers
	}
	if defined("max_frame_length", FlagMaxFrameLength) {
		c.MaxFrameLength = raw.MaxFrameLength
	}
	return nil
}

// Validate checks the config and fills NodeID when empty.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must be specified")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d", c.Workers)
	}
	if c.MaxFrameLength <= 0 || c.MaxFrameLength > api.MaxPayloadLength {
		return fmt.Errorf("max frame length %d out of range (1-%d)", c.MaxFrameLength, api.MaxPayloadLength)
	}
	if c.NodeID == "" {
		c.NodeID = MachineID()
	}
	if strings.ContainsAny(c.NodeID, "/+#") {
		return fmt.Errorf("node id %q must not contain MQTT topic separators or wildcards", c.NodeID)
	}
	return nil
}

// TransportOptions returns the options to open Port.
func (c *Config) TransportOptions() transport.Options {
	return transport.Options{BaudRate: c.Baud, ReadTimeout: c.ReadTimeout}
}

// MachineID retrieves the unique ID identifying the machine, falling back
// to the host name.
func MachineID() string {
	id, err := machineid.ProtectedID("xbee")
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "xbee"
}
