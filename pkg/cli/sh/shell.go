package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xbee.go/pkg/config"
	fx "github.com/robotalks/xbee.go/pkg/framework"
	"github.com/robotalks/xbee.go/pkg/transport"
	"github.com/robotalks/xbee.go/pkg/xbee/api"
	"github.com/robotalks/xbee.go/pkg/xbee/session"
)

// Shell provides ishell backed interactive shell over a radio session.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoOpen    bool

	Shell   *ishell.Shell
	Config  *config.Config
	Session *Session

	printLock sync.Mutex
}

// Session is an opened radio.
type Session struct {
	URL  string
	Conn *session.Conn

	runner *fx.Runner
	doneCh chan error
}

const (
	shellKey       = "$shell"
	closedPrompt   = "[none] > "
	maxPrintedData = 64
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	autoOpen   bool

	// commands
	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&TransmitCmd,
		&SendTextCmd,
		&PinCmd,
		&SeenCmd,
		&StatsCmd,
		&PortsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.BoolVar(&autoOpen, "open", autoOpen, "Open the configured port on start.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *config.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpened wraps command func requires an opened radio.
func MustBeOpened(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session == nil {
			c.Err(fmt.Errorf("not opened"))
			return
		}
		fn(c)
	}
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Open opens the radio at url and starts a session.
func (s *Shell) Open(url string) error {
	rw, err := transport.Open(url, s.Config.TransportOptions())
	if err != nil {
		return err
	}
	conn := session.NewConn(rw)
	conn.Handler = s.eventHandler()
	conn.Workers = 0
	conn.MaxFrameLength = s.Config.MaxFrameLength

	s.Close()
	sess := &Session{URL: url, Conn: conn, doneCh: make(chan error, 1)}
	sess.runner = fx.NewRunner().Go(conn)
	s.Session = sess
	go func() {
		// the conn closes rw when it stops.
		err := sess.runner.Wait()
		if err != nil {
			s.print(fmt.Sprintf("session %s stopped: %v", url, err))
		}
		sess.doneCh <- err
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", url))
	return nil
}

// Close closes the current radio.
func (s *Shell) Close() {
	if sess := s.Session; sess != nil {
		sess.runner.Stop()
		<-sess.doneCh
		s.Session = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

func (s *Shell) print(line string) {
	s.printLock.Lock()
	defer s.printLock.Unlock()
	s.Shell.Println(line)
}

func (s *Shell) printEvent(name string, v interface{}, line string) {
	if s.OutputJSON {
		out, err := json.Marshal(map[string]interface{}{"event": name, "data": v})
		if err == nil {
			s.print(string(out))
			return
		}
	}
	s.print(line)
}

func (s *Shell) eventHandler() session.Handler {
	return &session.HandlerFuncs{
		Receive: func(ctx context.Context, src api.Address64, data []byte) {
			s.printEvent("rx", map[string]interface{}{"source": src.String(), "data": data},
				fmt.Sprintf("RX %s: %s", src, FormatData(data)))
		},
		Samples: func(ctx context.Context, src api.Address64, raw []byte) {
			samples, err := api.ParseIOSamples(raw)
			if err != nil {
				s.printEvent("samples", map[string]interface{}{"source": src.String(), "raw": raw},
					fmt.Sprintf("SAMPLES %s: % x", src, raw))
				return
			}
			s.printEvent("samples", map[string]interface{}{"source": src.String(), "samples": samples},
				fmt.Sprintf("SAMPLES %s: %s", src, FormatSamples(samples)))
		},
		NewAddress: func(ctx context.Context, addr api.Address64) {
			s.printEvent("address", addr.String(), fmt.Sprintf("NEW %s", addr))
		},
		Status: func(ctx context.Context, dst api.Address16, status byte) {
			s.printEvent("status", map[string]interface{}{"destination": dst.String(), "status": status},
				fmt.Sprintf("STATUS %s: 0x%02x", dst, status))
		},
		Warning: func(ctx context.Context, msg string) {
			s.printEvent("warning", msg, "WARN "+msg)
		},
		RemoteResponse: func(ctx context.Context, resp *api.RemoteATResponse) {
			s.printEvent("remote", resp,
				fmt.Sprintf("REMOTE %s %s: 0x%02x % x", resp.Source, resp.Command, resp.Status, resp.Data))
		},
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoOpen && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Port)
		}
		if err := s.Open(s.Config.Port); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Port, err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(config.Default()).WithAutoOpen(autoOpen).Run(flag.Args()...)
}
