package viz

import (
	"context"

	"github.com/golang/glog"
)

// DefaultQueueDepth is the default outbound queue depth.
const DefaultQueueDepth = 10

// PublishQueue is a bounded outbound buffer in front of a sink.
// Publish never blocks: when the buffer is full the oldest marker is
// dropped. Buffered markers are delivered to Out by Run.
type PublishQueue struct {
	Out Sink

	ch chan Marker
}

// NewPublishQueue creates a PublishQueue with the given depth,
// DefaultQueueDepth if non-positive.
func NewPublishQueue(out Sink, depth int) *PublishQueue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &PublishQueue{Out: out, ch: make(chan Marker, depth)}
}

// Name implements framework.Named.
func (q *PublishQueue) Name() string {
	return "publish-queue"
}

// Publish implements Sink.
func (q *PublishQueue) Publish(m Marker) {
	for {
		select {
		case q.ch <- m:
			return
		default:
		}
		select {
		case dropped := <-q.ch:
			glog.V(1).Infof("marker %q dropped: queue full", dropped.ID())
		default:
		}
	}
}

// Run implements framework.Runnable, draining the queue into Out until
// the context is canceled. Markers already buffered at cancellation are
// still delivered.
func (q *PublishQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case m := <-q.ch:
					q.Out.Publish(m)
				default:
					return ctx.Err()
				}
			}
		case m := <-q.ch:
			q.Out.Publish(m)
		}
	}
}
