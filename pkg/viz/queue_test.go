package viz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ids(markers []Marker) []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.ID()
	}
	return out
}

func TestPublishQueueDropsOldest(t *testing.T) {
	capture := &CaptureSink{}
	q := NewPublishQueue(capture, 3)
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		q.Publish(NewMarker("body", id))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, q.Run(ctx))
	require.Equal(t, []string{"m3", "m4", "m5"}, ids(capture.Markers()))
}

func TestPublishQueuePumps(t *testing.T) {
	capture := &CaptureSink{}
	q := NewPublishQueue(capture, 0)
	require.Equal(t, DefaultQueueDepth, cap(q.ch))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- q.Run(ctx)
	}()

	q.Publish(NewMarker("body", "m1"))
	q.Publish(NewMarker("body", "m2"))
	deadline := time.Now().Add(2 * time.Second)
	for len(capture.Markers()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("markers not delivered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.Equal(t, []string{"m1", "m2"}, ids(capture.Markers()))
}
