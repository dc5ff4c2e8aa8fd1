package session

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/xbee.go/pkg/xbee/api"
)

// Handler receives validated frames from a Dispatcher.
type Handler interface {
	// OnReceive is called with the data received from a remote radio.
	OnReceive(ctx context.Context, src api.Address64, data []byte)
	// OnSamples is called with the uninterpreted I/O sample data.
	OnSamples(ctx context.Context, src api.Address64, samples []byte)
	// OnNewAddress is called the first time a source address is seen.
	OnNewAddress(ctx context.Context, addr api.Address64)
	// OnStatus reports the delivery status of a transmit request.
	OnStatus(ctx context.Context, dst api.Address16, status byte)
	// OnWarning reports frames which are not understood or dropped.
	OnWarning(ctx context.Context, msg string)
}

// RemoteResponseHandler is optionally implemented by a Handler to receive
// replies to remote AT commands.
type RemoteResponseHandler interface {
	OnRemoteResponse(ctx context.Context, resp *api.RemoteATResponse)
}

// HandlerFuncs implements Handler with funcs. nil funcs are skipped.
type HandlerFuncs struct {
	Receive        func(ctx context.Context, src api.Address64, data []byte)
	Samples        func(ctx context.Context, src api.Address64, samples []byte)
	NewAddress     func(ctx context.Context, addr api.Address64)
	Status         func(ctx context.Context, dst api.Address16, status byte)
	Warning        func(ctx context.Context, msg string)
	RemoteResponse func(ctx context.Context, resp *api.RemoteATResponse)
}

// OnReceive implements Handler.
func (h *HandlerFuncs) OnReceive(ctx context.Context, src api.Address64, data []byte) {
	if h.Receive != nil {
		h.Receive(ctx, src, data)
	}
}

// OnSamples implements Handler.
func (h *HandlerFuncs) OnSamples(ctx context.Context, src api.Address64, samples []byte) {
	if h.Samples != nil {
		h.Samples(ctx, src, samples)
	}
}

// OnNewAddress implements Handler.
func (h *HandlerFuncs) OnNewAddress(ctx context.Context, addr api.Address64) {
	if h.NewAddress != nil {
		h.NewAddress(ctx, addr)
	}
}

// OnStatus implements Handler.
func (h *HandlerFuncs) OnStatus(ctx context.Context, dst api.Address16, status byte) {
	if h.Status != nil {
		h.Status(ctx, dst, status)
	}
}

// OnWarning implements Handler.
func (h *HandlerFuncs) OnWarning(ctx context.Context, msg string) {
	if h.Warning != nil {
		h.Warning(ctx, msg)
	}
}

// OnRemoteResponse implements RemoteResponseHandler.
func (h *HandlerFuncs) OnRemoteResponse(ctx context.Context, resp *api.RemoteATResponse) {
	if h.RemoteResponse != nil {
		h.RemoteResponse(ctx, resp)
	}
}

// LogHandler logs everything using glog.
type LogHandler struct{}

// OnReceive implements Handler.
func (LogHandler) OnReceive(ctx context.Context, src api.Address64, data []byte) {
	glog.Infof("rx %s: % x", src, data)
}

// OnSamples implements Handler.
func (LogHandler) OnSamples(ctx context.Context, src api.Address64, samples []byte) {
	glog.Infof("samples %s: % x", src, samples)
}

// OnNewAddress implements Handler.
func (LogHandler) OnNewAddress(ctx context.Context, addr api.Address64) {
	glog.Infof("new address %s", addr)
}

// OnStatus implements Handler.
func (LogHandler) OnStatus(ctx context.Context, dst api.Address16, status byte) {
	glog.Infof("tx status %s: 0x%02x", dst, status)
}

// OnWarning implements Handler.
func (LogHandler) OnWarning(ctx context.Context, msg string) {
	glog.Warning(msg)
}

// OnRemoteResponse implements RemoteResponseHandler.
func (LogHandler) OnRemoteResponse(ctx context.Context, resp *api.RemoteATResponse) {
	glog.Infof("remote at %s %s: status 0x%02x % x", resp.Source, resp.Command, resp.Status, resp.Data)
}

// Handlers fans out to all handlers in order.
type Handlers []Handler

// OnReceive implements Handler.
func (hs Handlers) OnReceive(ctx context.Context, src api.Address64, data []byte) {
	for _, h := range hs {
		h.OnReceive(ctx, src, data)
	}
}

// OnSamples implements Handler.
func (hs Handlers) OnSamples(ctx context.Context, src api.Address64, samples []byte) {
	for _, h := range hs {
		h.OnSamples(ctx, src, samples)
	}
}

// OnNewAddress implements Handler.
func (hs Handlers) OnNewAddress(ctx context.Context, addr api.Address64) {
	for _, h := range hs {
		h.OnNewAddress(ctx, addr)
	}
}

// OnStatus implements Handler.
func (hs Handlers) OnStatus(ctx context.Context, dst api.Address16, status byte) {
	for _, h := range hs {
		h.OnStatus(ctx, dst, status)
	}
}

// OnWarning implements Handler.
func (hs Handlers) OnWarning(ctx context.Context, msg string) {
	for _, h := range hs {
		h.OnWarning(ctx, msg)
	}
}

// OnRemoteResponse implements RemoteResponseHandler.
// Handlers not implementing RemoteResponseHandler are skipped.
func (hs Handlers) OnRemoteResponse(ctx context.Context, resp *api.RemoteATResponse) {
	for _, h := range hs {
		if rh, ok := h.(RemoteResponseHandler); ok {
			rh.OnRemoteResponse(ctx, resp)
		}
	}
}
