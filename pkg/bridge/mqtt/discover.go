package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang/glog"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the retained metadata of running nodes.
func Discover(ctx context.Context, q *Queue, timeout time.Duration) (res []Meta, err error) {
	resCh := make(chan Meta, 1)
	sub := q.Sub(MetaTopic("+"), Handler(func(topic string, payload []byte) {
		if len(payload) == 0 {
			return
		}
		var meta Meta
		if err := json.Unmarshal(payload, &meta); err != nil {
			glog.Warningf("invalid meta on %s: %v", topic, err)
			return
		}
		if meta.NodeID == "" {
			meta.NodeID = strings.TrimSuffix(topic, "/meta")
		}
		select {
		case resCh <- meta:
		case <-time.After(time.Second):
		}
	}))
	defer sub.Close()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	expire := time.After(timeout)
	for {
		select {
		case meta := <-resCh:
			res = append(res, meta)
		case <-expire:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}
