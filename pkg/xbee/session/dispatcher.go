package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

// Sender sends a command to the radio.
type Sender interface {
	Send(api.Command) error
}

// SendFunc is func type of Sender.
type SendFunc func(api.Command) error

// Send implements Sender.
func (f SendFunc) Send(cmd api.Command) error {
	return f(cmd)
}

// SeenAddressSet records source addresses in the order first seen.
type SeenAddressSet struct {
	lock  sync.RWMutex
	addrs map[api.Address64]struct{}
	order []api.Address64
}

// Add records addr and returns true if it wasn't seen before.
func (s *SeenAddressSet) Add(addr api.Address64) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.addrs[addr]; ok {
		return false
	}
	if s.addrs == nil {
		s.addrs = make(map[api.Address64]struct{})
	}
	s.addrs[addr] = struct{}{}
	s.order = append(s.order, addr)
	return true
}

// Contains checks if addr was seen.
func (s *SeenAddressSet) Contains(addr api.Address64) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.addrs[addr]
	return ok
}

// Len returns the number of addresses seen.
func (s *SeenAddressSet) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.order)
}

// List returns a snapshot of the addresses in the order first seen.
func (s *SeenAddressSet) List() []api.Address64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]api.Address64(nil), s.order...)
}

// Dispatcher routes decoded frames to a Handler.
// Dispatch must be called from a single goroutine.
type Dispatcher struct {
	Handler Handler
	Sender  Sender
	Queue   *Queue

	seen SeenAddressSet
}

// Seen returns a snapshot of the source addresses seen so far.
func (d *Dispatcher) Seen() []api.Address64 {
	return d.seen.List()
}

// SeenCount returns the number of source addresses seen so far.
func (d *Dispatcher) SeenCount() int {
	return d.seen.Len()
}

// Dispatch processes a decoded frame. Handler calls are submitted to Queue
// in the order they are issued. A remote AT request is re-issued to its
// target through Sender before Dispatch returns.
func (d *Dispatcher) Dispatch(ctx context.Context, frame api.Frame) error {
	h := d.Handler
	if h == nil {
		h = LogHandler{}
	}
	switch f := frame.(type) {
	case *api.ReceivePacket:
		if err := d.record(ctx, h, f.Source); err != nil {
			return err
		}
		return d.Queue.Submit(ctx, func() { h.OnReceive(ctx, f.Source, f.Data) })
	case *api.RemoteATRequest:
		if err := d.record(ctx, h, f.Source); err != nil {
			return err
		}
		return d.echo(f)
	case *api.IOSample:
		if err := d.record(ctx, h, f.Source); err != nil {
			return err
		}
		return d.Queue.Submit(ctx, func() { h.OnSamples(ctx, f.Source, f.Samples) })
	case *api.TransmitStatus:
		glog.V(2).Infof("tx status frame %d to %s: delivery 0x%02x, retries %d",
			f.FrameID, f.Destination, f.DeliveryStatus, f.Retries)
		return d.Queue.Submit(ctx, func() { h.OnStatus(ctx, f.Destination, f.DeliveryStatus) })
	case *api.RemoteATResponse:
		if rh, ok := h.(RemoteResponseHandler); ok {
			return d.Queue.Submit(ctx, func() { rh.OnRemoteResponse(ctx, f) })
		}
		glog.Infof("remote at response %s %s: status 0x%02x", f.Source, f.Command, f.Status)
	case *api.ModemStatus:
		glog.Infof("modem status 0x%02x", f.Status)
	case *api.Unknown:
		msg := fmt.Sprintf("unknown frame %s: % x", f.Type(), []byte(f.Raw))
		glog.V(1).Info(msg)
		return d.Queue.Submit(ctx, func() { h.OnWarning(ctx, msg) })
	default:
		return fmt.Errorf("unsupported frame %T", frame)
	}
	return nil
}

func (d *Dispatcher) record(ctx context.Context, h Handler, addr api.Address64) error {
	if !d.seen.Add(addr) {
		return nil
	}
	glog.Infof("seen address: %s", addr)
	return d.Queue.Submit(ctx, func() { h.OnNewAddress(ctx, addr) })
}

func (d *Dispatcher) echo(req *api.RemoteATRequest) error {
	glog.Infof("%s remote_at %s, %d, %s, % x", req.Source, req.Target, req.Options, req.Command, req.Parameter)
	if d.Sender == nil {
		return ErrNoSender
	}
	cmd := api.NewRemoteAT(req.Target, req.Command, req.Parameter)
	if err := d.Sender.Send(cmd); err != nil {
		return fmt.Errorf("remote_at echo to %s: %w", req.Target, err)
	}
	return nil
}
