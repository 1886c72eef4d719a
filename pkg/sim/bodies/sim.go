// Package bodies provides a reference simulator of kinematic unicycle
// bodies, enough to drive the loop without a full physics stack.
package bodies

import (
	"math"

	"github.com/simviz/simdrive/pkg/driver"
	"github.com/simviz/simdrive/pkg/sim"
	"github.com/simviz/simdrive/pkg/viz"
)

// Body is one simulated body.
type Body struct {
	Name     string
	Type     string
	Pose     sim.Pose2D
	Speed    float64 // units/s
	TurnRate float64 // radians/s
	Radius   float64
}

// Simulator implements driver.Simulator over a set of bodies.
type Simulator struct {
	world  WorldConfig
	bodies []*Body
}

// New creates a Simulator from a world config file.
func New(path string) (*Simulator, error) {
	conf, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(conf), nil
}

// FromConfig creates a Simulator from a validated config.
func FromConfig(conf *Config) *Simulator {
	s := &Simulator{world: conf.World}
	for _, bc := range conf.Bodies {
		s.bodies = append(s.bodies, &Body{
			Name: bc.Name,
			Type: bc.Type,
			Pose: sim.Pose2D{
				Pos2D:       sim.Pos2D{X: bc.X, Y: bc.Y},
				Orientation: sim.AngleFromDegrees(bc.Heading),
			},
			Speed: bc.Speed,
			// a rate is not an angle: no wrap-around normalization here
			TurnRate: bc.TurnRate * math.Pi / 180,
			Radius:   bc.Radius,
		})
	}
	return s
}

// Bodies returns the simulated bodies.
func (s *Simulator) Bodies() []*Body {
	return s.bodies
}

// Step implements driver.Simulator.
func (s *Simulator) Step(_ driver.InputSet, _, dt float64) error {
	for _, b := range s.bodies {
		b.Pose.Pos2D.OffsetBy(b.Pose.Orientation.Project(b.Speed * dt))
		b.Pose.Orientation = b.Pose.Orientation.AddRadians(b.TurnRate * dt)
	}
	return nil
}

// Markers implements driver.Simulator. The arena corners are static and
// included in every batch.
func (s *Simulator) Markers() []viz.Marker {
	var markers []viz.Marker
	if w, h := s.world.W, s.world.H; w > 0 && h > 0 {
		markers = append(markers,
			viz.NewMarker("corner", "corner-lt").With("loc", "lt").At(-w/2, -h/2).Radius(1),
			viz.NewMarker("corner", "corner-lb").With("loc", "lb").At(-w/2, h/2).Radius(1),
			viz.NewMarker("corner", "corner-rt").With("loc", "rt").At(w/2, -h/2).Radius(1),
			viz.NewMarker("corner", "corner-rb").With("loc", "rb").At(w/2, h/2).Radius(1),
		)
	}
	for _, b := range s.bodies {
		markers = append(markers, viz.NewMarker(b.Type, viz.MarkerID(b.Name)).
			At(b.Pose.X, b.Pose.Y).
			Radius(b.Radius).
			Rotate(b.Pose.Orientation.Degrees()))
	}
	return markers
}
