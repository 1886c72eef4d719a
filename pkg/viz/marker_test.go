package viz

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkerBuilders(t *testing.T) {
	m := NewMarker("car", "car.1").
		At(10, -20).
		Radius(40).
		Rotate(90).
		With("style", "red")
	require.Equal(t, "car.1", m.ID())
	require.Equal(t, "car", m[PropType])
	require.Equal(t, &Pos{X: 10, Y: -20}, m[PropOrigin])
	require.Equal(t, 40.0, m[PropRadius])
	require.Equal(t, 90.0, m[PropRotate])
	require.Equal(t, "red", m["style"])
}

func TestMarkerID(t *testing.T) {
	require.Equal(t, "car.1", MarkerID("car/1"))
	require.Equal(t, "pedestrian", MarkerID("pedestrian"))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &WriterSink{W: &buf}
	sink.Publish(NewMarker("car", "car.1").At(1, 2))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "car.1", decoded[PropID])
	require.Equal(t, "car", decoded[PropType])
	origin, ok := decoded[PropOrigin].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, 1.0, origin["x"])
	require.Equal(t, 2.0, origin["y"])
}

func TestCaptureSinkOrder(t *testing.T) {
	capture := &CaptureSink{}
	capture.Publish(NewMarker("body", "a"))
	capture.Publish(NewMarker("body", "b"))
	require.Equal(t, []string{"a", "b"}, ids(capture.Markers()))
}
