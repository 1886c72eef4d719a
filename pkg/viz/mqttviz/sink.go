// Package mqttviz publishes visualization markers over MQTT.
package mqttviz

import (
	"encoding/json"

	"github.com/golang/glog"

	"github.com/simviz/simdrive/pkg/mqtt"
	"github.com/simviz/simdrive/pkg/viz"
)

// DefaultTopic is the topic markers are published to, relative to the
// queue's topic prefix.
const DefaultTopic = "visualization/marker"

// Sink publishes each marker as a JSON payload.
type Sink struct {
	Queue *mqtt.Queue
	Topic string
}

// New creates a Sink publishing to DefaultTopic.
func New(q *mqtt.Queue) *Sink {
	return &Sink{Queue: q, Topic: DefaultTopic}
}

// Publish implements viz.Sink. The delivery token is not awaited.
func (s *Sink) Publish(m viz.Marker) {
	payload, err := json.Marshal(m)
	if err != nil {
		glog.Warningf("marker %q encode error: %v", m.ID(), err)
		return
	}
	s.Queue.Pub(s.Topic, payload)
}
