// Package driver implements the fixed-rate loop advancing a simulator
// and republishing its visualization markers.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/simviz/simdrive/pkg/viz"
)

// InputSet maps input channel identifiers to per-tick input values.
// The value schema is owned by the Simulator.
type InputSet map[string]interface{}

// InputProvider supplies the InputSet for the next tick. It is invoked
// exactly once per tick, before Simulator.Step.
type InputProvider interface {
	Inputs(ctx context.Context, t float64) (InputSet, error)
}

// InputProviderFunc is the func form of InputProvider.
type InputProviderFunc func(ctx context.Context, t float64) (InputSet, error)

// Inputs implements InputProvider.
func (f InputProviderFunc) Inputs(ctx context.Context, t float64) (InputSet, error) {
	return f(ctx, t)
}

// Simulator owns the simulated world state.
type Simulator interface {
	// Step advances the world by one tick of length dt at simulation
	// time t. The driver passes t by value; Step must not retain it.
	Step(inputs InputSet, t, dt float64) error
	// Markers reports the visualization primitives for the current
	// state. It must not mutate simulation state.
	Markers() []viz.Marker
}

// PacePolicy selects how the loop schedules the next tick after the
// current tick overruns the period.
type PacePolicy int

const (
	// PaceSkip skips the sleep and re-anchors the schedule at the
	// current instant. Missed ticks are not compensated.
	PaceSkip PacePolicy = iota
	// PaceCatchUp keeps the original schedule so short overruns are
	// absorbed by shorter subsequent sleeps.
	PaceCatchUp
)

// DefaultFreq is the tick rate used when none is specified.
const DefaultFreq = 15.0

// Driver owns the wall-clock pacing, the simulation time counter and
// the per-tick orchestration of Step and marker publishing.
type Driver struct {
	Sim    Simulator
	Sink   viz.Sink
	Inputs InputProvider
	Freq   float64
	Policy PacePolicy

	clock clock
}

// New creates a Driver with the default tick rate.
func New(sim Simulator, sink viz.Sink) *Driver {
	return &Driver{Sim: sim, Sink: sink, Freq: DefaultFreq, clock: wallClock{}}
}

// Name implements framework.Named.
func (d *Driver) Name() string {
	return "driver"
}

// Run implements framework.Runnable. It loops until the context is
// canceled, which is a clean shutdown, or until Step or the input
// provider fails, which is fatal. Cancellation is observed at the top
// of each iteration: a tick in flight always completes.
func (d *Driver) Run(ctx context.Context) error {
	freq := d.Freq
	if freq == 0 {
		freq = DefaultFreq
	}
	if freq <= 0 {
		return fmt.Errorf("tick rate must be positive, got %v", freq)
	}
	clk := d.clock
	if clk == nil {
		clk = wallClock{}
	}

	dt := 1 / freq
	period := time.Duration(float64(time.Second) / freq)
	t := 0.0
	glog.Infof("loop started: freq=%v dt=%v", freq, dt)

	var sched time.Time
	for {
		if ctx.Err() != nil {
			glog.Info("loop stopped")
			return nil
		}
		start := clk.Now()
		if err := d.runTick(ctx, t, dt); err != nil {
			return err
		}
		next := start.Add(period)
		if d.Policy == PaceCatchUp {
			if sched.IsZero() {
				sched = start
			}
			sched = sched.Add(period)
			next = sched
		}
		if wait := next.Sub(clk.Now()); wait > 0 {
			clk.Sleep(ctx, wait)
		} else if wait < 0 {
			glog.V(1).Infof("tick at t=%v overran the period by %v", t, -wait)
		}
		t += dt
	}
}

func (d *Driver) runTick(ctx context.Context, t, dt float64) error {
	var inputs InputSet
	if d.Inputs != nil {
		var err error
		if inputs, err = d.Inputs.Inputs(ctx, t); err != nil {
			return fmt.Errorf("gather inputs at t=%v: %v", t, err)
		}
	}
	if err := d.Sim.Step(inputs, t, dt); err != nil {
		return fmt.Errorf("step at t=%v: %v", t, err)
	}
	for _, m := range d.Sim.Markers() {
		d.Sink.Publish(m)
	}
	return nil
}
