package session

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	fx "github.com/robotalks/xbee.go/pkg/framework"
	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

// DefaultReadBufferSize is the size of chunks read from the ReadWriter.
const DefaultReadBufferSize = 256

// Stats are counters of a Conn.
type Stats struct {
	// Frames is the number of frames assembled with a valid checksum.
	Frames uint64
	// Invalid is the number of framing errors.
	Invalid uint64
	// Dropped is the number of frames failing validation after decoding.
	Dropped uint64
	// Unknown is the number of frames not recognized.
	Unknown uint64
	// Sent is the number of frames written.
	Sent uint64
}

// Conn runs an API mode session over a ReadWriter.
type Conn struct {
	ReadWriter     io.ReadWriter
	Handler        Handler
	Workers        int
	MaxFrameLength int
	ReadBufferSize int

	dispatcher Dispatcher
	writeLock  sync.Mutex
	stats      Stats
}

// NewConn creates a Conn.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{
		ReadWriter:     rw,
		MaxFrameLength: api.DefaultMaxFrameLength,
		ReadBufferSize: DefaultReadBufferSize,
	}
}

// Name implements framework.Named.
func (c *Conn) Name() string {
	return "xbee"
}

// Send encodes cmd and writes the frame. Frames from concurrent calls are
// never interleaved.
func (c *Conn) Send(cmd api.Command) error {
	data, err := api.Encode(cmd)
	if err != nil {
		return err
	}
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if c.ReadWriter == nil {
		return ErrNotConnected
	}
	if _, err = c.ReadWriter.Write(data); err != nil {
		return err
	}
	atomic.AddUint64(&c.stats.Sent, 1)
	glog.V(2).Infof("sent % x", data)
	return nil
}

// SendTransmit sends data to dst.
func (c *Conn) SendTransmit(dst api.Address64, data []byte) error {
	return c.Send(api.NewTransmit(dst, data))
}

// SendRemotePin sends a remote AT command to dst, e.g. "D0" with
// parameter 0x05 to drive pin 0 high.
func (c *Conn) SendRemotePin(dst api.Address64, cmd string, param []byte) error {
	return c.Send(api.NewRemoteAT(dst, cmd, param))
}

// Seen returns a snapshot of the source addresses seen so far.
func (c *Conn) Seen() []api.Address64 {
	return c.dispatcher.Seen()
}

// Stats returns a snapshot of the counters.
func (c *Conn) Stats() Stats {
	return Stats{
		Frames:  atomic.LoadUint64(&c.stats.Frames),
		Invalid: atomic.LoadUint64(&c.stats.Invalid),
		Dropped: atomic.LoadUint64(&c.stats.Dropped),
		Unknown: atomic.LoadUint64(&c.stats.Unknown),
		Sent:    atomic.LoadUint64(&c.stats.Sent),
	}
}

// Run reads and processes frames until ctx is done or the ReadWriter fails.
// A ReadWriter implementing io.Closer is closed when Run returns, which
// also releases a pending Read.
func (c *Conn) Run(ctx context.Context) error {
	if c.ReadWriter == nil {
		return ErrNotConnected
	}
	if closer, ok := c.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error {
			return c.run(ctx)
		})
	}
	return c.run(ctx)
}

func (c *Conn) run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := NewQueue(c.Workers)
	if queue.Workers > 0 {
		go queue.Run(runCtx)
	}
	c.dispatcher.Handler = c.Handler
	c.dispatcher.Sender = c
	c.dispatcher.Queue = queue

	asm := api.NewAssembler(c.MaxFrameLength)
	dataCh, errCh := make(chan []byte), make(chan error, 1)
	go c.readLoop(runCtx, dataCh, errCh)
	for {
		select {
		case data := <-dataCh:
			glog.V(3).Infof("recv % x", data)
			// a frame is dispatched before the next byte is assembled.
			for _, b := range data {
				pr := asm.Parse(b)
				if pr.Status == api.Incomplete && pr.Err == nil {
					continue
				}
				if err := c.applyParseResult(runCtx, pr); err != nil {
					return err
				}
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Conn) readLoop(ctx context.Context, dataCh chan []byte, errCh chan error) {
	size := c.ReadBufferSize
	if size <= 0 {
		size = DefaultReadBufferSize
	}
	for {
		buf := make([]byte, size)
		n, err := c.ReadWriter.Read(buf)
		if n > 0 {
			select {
			case dataCh <- buf[:n]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (c *Conn) applyParseResult(ctx context.Context, pr api.ParseResult) error {
	if pr.Err != nil {
		atomic.AddUint64(&c.stats.Invalid, 1)
		glog.Warning(pr.Err)
		if err := c.warn(ctx, pr.Err.Error()); err != nil {
			return err
		}
	}
	if pr.Status != api.Complete {
		return nil
	}
	atomic.AddUint64(&c.stats.Frames, 1)
	glog.V(2).Infof("frame %s: % x", pr.Frame.Type(), []byte(pr.Frame))
	frame, err := api.Decode(pr.Frame)
	if err != nil {
		atomic.AddUint64(&c.stats.Dropped, 1)
		glog.Error(err)
		return nil
	}
	if _, ok := frame.(*api.Unknown); ok {
		atomic.AddUint64(&c.stats.Unknown, 1)
	}
	if err = c.dispatcher.Dispatch(ctx, frame); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.Errorf("dispatch %s: %v", frame.Type(), err)
	}
	return nil
}

func (c *Conn) warn(ctx context.Context, msg string) error {
	h := c.Handler
	if h == nil {
		return nil
	}
	err := c.dispatcher.Queue.Submit(ctx, func() { h.OnWarning(ctx, msg) })
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
