package sh

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xbee.go/pkg/transport"
	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

// ParseHexBytes parses hex digits, optionally separated by spaces or colons.
func ParseHexBytes(args ...string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.NewReplacer(" ", "", ":", "").Replace(strings.TrimPrefix(strings.ToLower(s), "0x"))
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %v", err)
	}
	return data, nil
}

// FormatData prints data as text if it's printable, otherwise in hex.
func FormatData(data []byte) string {
	truncated := len(data) > maxPrintedData
	if truncated {
		data = data[:maxPrintedData]
	}
	printable := len(data) > 0
	for _, r := range string(data) {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			printable = false
			break
		}
	}
	var out string
	if printable {
		out = fmt.Sprintf("%q", data)
	} else {
		out = fmt.Sprintf("% x", data)
	}
	if truncated {
		out += " ..."
	}
	return out
}

// FormatSamples prints samples with channels in order.
func FormatSamples(samples []api.Sample) string {
	items := make([]string, 0, len(samples))
	for _, s := range samples {
		var fields []string
		for key, val := range s.Digital {
			level := 0
			if val {
				level = 1
			}
			fields = append(fields, fmt.Sprintf("%s=%d", key, level))
		}
		for key, val := range s.Analog {
			fields = append(fields, fmt.Sprintf("%s=%d", key, val))
		}
		sort.Strings(fields)
		items = append(items, "{"+strings.Join(fields, " ")+"}")
	}
	return strings.Join(items, " ")
}

func parseAddressArg(c *ishell.Context, name string) (api.Address64, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("%s required", name))
		return api.Address64{}, false
	}
	switch strings.ToLower(c.Args[0]) {
	case "broadcast", "bcast":
		return api.AddressBroadcast, true
	case "coordinator", "coord":
		return api.AddressCoordinator, true
	}
	addr, err := api.ParseAddress64(c.Args[0])
	if err != nil {
		c.Err(err)
		return addr, false
	}
	return addr, true
}

func printOK(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	if s := ShellFrom(c); s.OutputJSON {
		c.Println(`{"ok":true}`)
	} else {
		c.Println("OK")
	}
}

func printJSON(c *ishell.Context, v interface{}) bool {
	if !ShellFrom(c).OutputJSON {
		return false
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return true
	}
	c.Println(string(out))
	return true
}

var (
	// OpenCmd opens a radio.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			url := s.Config.Port
			if len(c.Args) > 0 {
				url = c.Args[0]
			}
			if url == "" {
				c.Err(fmt.Errorf("URL required"))
				return
			}
			if err := s.Open(url); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes current radio.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// TransmitCmd sends data to a remote radio.
	TransmitCmd = ishell.Cmd{
		Name:    "tx",
		Aliases: []string{"t"},
		Help:    "ADDR|broadcast HEX...",
		Func: MustBeOpened(func(c *ishell.Context) {
			dst, ok := parseAddressArg(c, "ADDR")
			if !ok {
				return
			}
			data, err := ParseHexBytes(c.Args[1:]...)
			if err != nil {
				c.Err(err)
				return
			}
			printOK(c, ShellFrom(c).Session.Conn.SendTransmit(dst, data))
		}),
	}

	// SendTextCmd sends text to a remote radio.
	SendTextCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "ADDR|broadcast TEXT...",
		Func: MustBeOpened(func(c *ishell.Context) {
			dst, ok := parseAddressArg(c, "ADDR")
			if !ok {
				return
			}
			text := strings.Join(c.Args[1:], " ")
			printOK(c, ShellFrom(c).Session.Conn.SendTransmit(dst, []byte(text)))
		}),
	}

	// PinCmd sends a remote AT command, e.g. pin ADDR D0 05.
	PinCmd = ishell.Cmd{
		Name:    "pin",
		Aliases: []string{"p"},
		Help:    "ADDR CMD [HEXPARAM]",
		Func: MustBeOpened(func(c *ishell.Context) {
			dst, ok := parseAddressArg(c, "ADDR")
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("CMD required"))
				return
			}
			param, err := ParseHexBytes(c.Args[2:]...)
			if err != nil {
				c.Err(err)
				return
			}
			cmd := strings.ToUpper(c.Args[1])
			printOK(c, ShellFrom(c).Session.Conn.SendRemotePin(dst, cmd, param))
		}),
	}

	// SeenCmd lists the addresses seen.
	SeenCmd = ishell.Cmd{
		Name:    "seen",
		Aliases: []string{"ls"},
		Help:    "",
		Func: MustBeOpened(func(c *ishell.Context) {
			seen := ShellFrom(c).Session.Conn.Seen()
			addrs := make([]string, len(seen))
			for n, addr := range seen {
				addrs[n] = addr.String()
			}
			if printJSON(c, addrs) {
				return
			}
			if len(addrs) == 0 {
				c.Println("No addresses seen")
				return
			}
			for _, addr := range addrs {
				c.Println(addr)
			}
		}),
	}

	// StatsCmd prints the counters of current session.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: MustBeOpened(func(c *ishell.Context) {
			st := ShellFrom(c).Session.Conn.Stats()
			if printJSON(c, st) {
				return
			}
			c.Printf("frames %d, invalid %d, dropped %d, unknown %d, sent %d\n",
				st.Frames, st.Invalid, st.Dropped, st.Unknown, st.Sent)
		}),
	}

	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "",
		Func: func(c *ishell.Context) {
			ports, err := transport.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if printJSON(c, ports) {
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}
)
