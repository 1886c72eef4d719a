// Package viz defines the visualization marker model and publish sinks.
package viz

import "strings"

// Marker is the data model of a single visualization primitive
// describing a shape/pose to render.
type Marker map[string]interface{}

// Rect is a marker rect area.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Pos is a position.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Properties
const (
	PropID     = "id"
	PropType   = "type"
	PropRect   = "rect"
	PropOrigin = "origin"
	PropRadius = "radius"
	PropRotate = "rotate"
	PropStyle  = "style"
)

// MarkerID converts an object name to a marker ID.
func MarkerID(name string) string {
	return strings.Replace(name, "/", ".", -1)
}

// NewMarker creates a Marker.
func NewMarker(typ, id string) Marker {
	m := make(Marker)
	m[PropID] = id
	m[PropType] = typ
	return m
}

// ID gets the marker ID, empty if unset.
func (m Marker) ID() string {
	id, _ := m[PropID].(string)
	return id
}

// Rc sets rect.
func (m Marker) Rc(x, y, w, h float64) Marker {
	m[PropRect] = &Rect{X: x, Y: y, W: w, H: h}
	return m
}

// At sets origin.
func (m Marker) At(x, y float64) Marker {
	m[PropOrigin] = &Pos{X: x, Y: y}
	return m
}

// Radius sets radius.
func (m Marker) Radius(r float64) Marker {
	m[PropRadius] = r
	return m
}

// Rotate sets rotate.
func (m Marker) Rotate(deg float64) Marker {
	m[PropRotate] = deg
	return m
}

// With sets a custom property.
func (m Marker) With(key string, val interface{}) Marker {
	m[key] = val
	return m
}
