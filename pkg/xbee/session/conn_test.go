package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

type testStream struct {
	readCh  chan []byte
	writeCh chan []byte
}

func newTestStream() *testStream {
	return &testStream{
		readCh:  make(chan []byte),
		writeCh: make(chan []byte, 16),
	}
}

func (s *testStream) Read(p []byte) (int, error) {
	data, ok := <-s.readCh
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (s *testStream) Write(p []byte) (int, error) {
	s.writeCh <- append([]byte(nil), p...)
	return len(p), nil
}

type connTestCtx struct {
	t      *testing.T
	stream *testStream
	conn   *Conn
	rec    *eventRecorder
	cancel func()
	doneCh chan error
}

func startConn(t *testing.T) *connTestCtx {
	c := &connTestCtx{
		t:      t,
		stream: newTestStream(),
		rec:    newEventRecorder(),
		doneCh: make(chan error, 1),
	}
	c.conn = NewConn(c.stream)
	c.conn.Handler = c.rec.handler()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go func() { c.doneCh <- c.conn.Run(ctx) }()
	return c
}

func (c *connTestCtx) inject(chunks ...[]byte) *connTestCtx {
	for _, chunk := range chunks {
		c.stream.readCh <- chunk
	}
	return c
}

func (c *connTestCtx) expectEvents(expected ...string) *connTestCtx {
	var events []string
	for len(events) < len(expected) {
		select {
		case ev := <-c.rec.ch:
			events = append(events, ev)
		case <-time.After(time.Second):
			c.t.Fatalf("expect events timeout, got %v", events)
		}
	}
	require.Equal(c.t, expected, events)
	return c
}

func (c *connTestCtx) expectWrite(expected []byte) *connTestCtx {
	select {
	case data := <-c.stream.writeCh:
		require.Equal(c.t, expected, data)
	case <-time.After(time.Second):
		c.t.Fatal("expect write timeout")
	}
	return c
}

func (c *connTestCtx) stop() error {
	c.cancel()
	select {
	case err := <-c.doneCh:
		return err
	case <-time.After(time.Second):
		c.t.Fatal("stop timeout")
	}
	return nil
}

func wireFrame(t *testing.T, payload []byte) []byte {
	data, err := api.EncodeRaw(payload)
	require.NoError(t, err)
	return data
}

func rxPayload(src api.Address64, data []byte) []byte {
	payload := append([]byte{byte(api.TypeReceivePacket)}, src[:]...)
	payload = append(payload, 0xff, 0xfe, 0x01)
	return append(payload, data...)
}

func embeddedRemoteAT(length uint16, cmd string, param []byte) []byte {
	payload := []byte{byte(api.TypeRemoteATCommand), 0x01}
	payload = append(payload, testTarget[:]...)
	payload = append(payload, 0xff, 0xfe, api.RemoteATApplyChanges)
	payload = append(payload, cmd...)
	payload = append(payload, param...)
	frame := append([]byte{api.StartDelimiter, byte(length >> 8), byte(length)}, payload...)
	return append(frame, api.Checksum(payload))
}

func TestConnReceive(t *testing.T) {
	c := startConn(t)
	frame := wireFrame(t, rxPayload(testSource, []byte("hi")))
	c.inject([]byte{0x00, 0x11}, frame[:5], frame[5:]).
		expectEvents("new 0013a20041526374", "rx 0013a20041526374 68 69").
		inject(wireFrame(t, rxPayload(testSource, []byte{0x7e}))).
		expectEvents("rx 0013a20041526374 7e")
	require.Equal(t, context.Canceled, c.stop())
	require.Equal(t, Stats{Frames: 2}, c.conn.Stats())
	require.Equal(t, []api.Address64{testSource}, c.conn.Seen())
}

func TestConnRemoteATEcho(t *testing.T) {
	c := startConn(t)
	expected, err := api.Encode(api.NewRemoteAT(testTarget, "D0", []byte{0x00, 0x05}))
	require.NoError(t, err)
	c.inject(wireFrame(t, rxPayload(testSource, embeddedRemoteAT(0x11, "D0", []byte{0x00, 0x05})))).
		expectEvents("new 0013a20041526374").
		expectWrite(expected)
	require.Equal(t, context.Canceled, c.stop())
	require.Equal(t, Stats{Frames: 1, Sent: 1}, c.conn.Stats())
}

func TestConnEchoBeforeNextFrame(t *testing.T) {
	stream := newTestStream()
	conn := NewConn(stream)
	conn.Workers = 0
	pendingCh := make(chan int, 1)
	conn.Handler = &HandlerFuncs{
		Receive: func(ctx context.Context, src api.Address64, data []byte) {
			pendingCh <- len(stream.writeCh)
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go conn.Run(ctx)

	var chunk []byte
	chunk = append(chunk, wireFrame(t, rxPayload(testSource, embeddedRemoteAT(0x11, "D1", []byte{0x00, 0x04})))...)
	chunk = append(chunk, wireFrame(t, rxPayload(testTarget, []byte{0x01}))...)
	stream.readCh <- chunk
	select {
	case pending := <-pendingCh:
		require.Equal(t, 1, pending)
	case <-time.After(time.Second):
		t.Fatal("expect receive")
	}
}

func TestConnDropsInvalidRemoteAT(t *testing.T) {
	c := startConn(t)
	c.inject(wireFrame(t, rxPayload(testSource, embeddedRemoteAT(0x10, "D0", []byte{0x00, 0x05})))).
		inject(wireFrame(t, rxPayload(testTarget, []byte{0x01}))).
		expectEvents("new 0013a200400a0127", "rx 0013a200400a0127 01")
	require.Equal(t, context.Canceled, c.stop())
	require.Equal(t, Stats{Frames: 2, Dropped: 1}, c.conn.Stats())
	require.Empty(t, c.stream.writeCh)
}

func TestConnFramingErrors(t *testing.T) {
	c := startConn(t)
	c.inject([]byte{0x7e, 0x00, 0x01, 0x00, 0xfa}).
		expectEvents("warning").
		inject([]byte{0x7e, 0x00, 0x05, 0x90}).
		inject(wireFrame(t, []byte{byte(api.TypeTransmitStatus), 0x01, 0x7d, 0x84, 0x00, 0x00, 0x00})).
		expectEvents("warning", "status 7d84 00").
		inject(wireFrame(t, []byte{byte(api.TypeATResponse), 0x01})).
		expectEvents("warning")
	require.Equal(t, context.Canceled, c.stop())
	require.Equal(t, Stats{Frames: 2, Invalid: 2, Unknown: 1}, c.conn.Stats())
}

func TestConnReadError(t *testing.T) {
	c := startConn(t)
	close(c.stream.readCh)
	select {
	case err := <-c.doneCh:
		require.Equal(t, io.EOF, err)
	case <-time.After(time.Second):
		t.Fatal("expect read error")
	}
	c.cancel()
}

type closableStream struct {
	*testStream
	closeOnce sync.Once
	closedCh  chan struct{}
	readDone  chan struct{}
}

func (s *closableStream) Read(p []byte) (int, error) {
	select {
	case data := <-s.readCh:
		return copy(p, data), nil
	case <-s.closedCh:
		close(s.readDone)
		return 0, io.ErrClosedPipe
	}
}

func (s *closableStream) Close() error {
	s.closeOnce.Do(func() { close(s.closedCh) })
	return nil
}

func TestConnClosesStreamOnCancel(t *testing.T) {
	stream := &closableStream{
		testStream: newTestStream(),
		closedCh:   make(chan struct{}),
		readDone:   make(chan struct{}),
	}
	conn := NewConn(stream)
	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() { doneCh <- conn.Run(ctx) }()
	cancel()
	select {
	case err := <-doneCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("stop timeout")
	}
	select {
	case <-stream.readDone:
	case <-time.After(time.Second):
		t.Fatal("pending read not released")
	}
}

func TestConnNotConnected(t *testing.T) {
	conn := &Conn{}
	require.Equal(t, ErrNotConnected, conn.Run(context.Background()))
	require.Equal(t, ErrNotConnected, conn.SendTransmit(api.AddressBroadcast, []byte{1}))
	_, ok := conn.SendRemotePin(testTarget, "X", nil).(*api.EncodeError)
	require.True(t, ok)
}

type recordWriter struct {
	io.Reader
	lock   sync.Mutex
	writes [][]byte
}

func (w *recordWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	size := len(p)
	// write in small pieces to expose interleaving.
	for len(p) > 0 {
		n := 3
		if n > len(p) {
			n = len(p)
		}
		w.writes = append(w.writes, append([]byte(nil), p[:n]...))
		p = p[n:]
		time.Sleep(time.Microsecond)
	}
	return size, nil
}

func TestConnSendSerialized(t *testing.T) {
	w := &recordWriter{}
	conn := NewConn(w)
	var wg sync.WaitGroup
	const senders = 8
	for n := 0; n < senders; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			require.NoError(t, conn.SendTransmit(testTarget, []byte{byte(n), byte(n), byte(n)}))
		}(n)
	}
	wg.Wait()
	require.Equal(t, Stats{Sent: senders}, conn.Stats())

	var stream []byte
	for _, piece := range w.writes {
		stream = append(stream, piece...)
	}
	seen := make(map[byte]bool)
	for _, pr := range api.NewAssembler(0).Feed(stream) {
		require.Equal(t, api.Complete, pr.Status)
		f, err := api.Decode(pr.Frame)
		require.NoError(t, err)
		tx := f.(*api.Unknown).Raw
		require.Equal(t, api.TypeTransmitRequest, tx.Type())
		data := tx[len(tx)-3:]
		require.Equal(t, data[0], data[1])
		require.Equal(t, data[0], data[2])
		seen[data[0]] = true
	}
	require.Len(t, seen, senders)
}
