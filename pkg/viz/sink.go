package viz

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
)

// Sink is a publish channel accepting one marker at a time,
// fire-and-forget.
type Sink interface {
	Publish(Marker)
}

// CaptureSink records published markers in memory. It substitutes a
// real publish channel where the markers need to be inspected.
type CaptureSink struct {
	lock    sync.Mutex
	markers []Marker
}

// Publish implements Sink.
func (s *CaptureSink) Publish(m Marker) {
	s.lock.Lock()
	s.markers = append(s.markers, m)
	s.lock.Unlock()
}

// Markers returns all markers published so far, in publish order.
func (s *CaptureSink) Markers() []Marker {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Marker(nil), s.markers...)
}

// WriterSink writes each marker as one JSON line.
type WriterSink struct {
	W io.Writer

	lock sync.Mutex
}

// Publish implements Sink.
func (s *WriterSink) Publish(m Marker) {
	encoded, err := json.Marshal(m)
	if err != nil {
		glog.Warningf("marker encode error: %v", err)
		return
	}
	s.lock.Lock()
	fmt.Fprintln(s.W, string(encoded))
	s.lock.Unlock()
}
