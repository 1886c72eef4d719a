package bodies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simviz/simdrive/pkg/viz"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewBadConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not yaml", "{{"},
		{"unknown field", "bodies:\n  - name: a\n    wheels: 4\n"},
		{"no bodies", "world:\n  w: 100\n  h: 100\n"},
		{"unnamed body", "bodies:\n  - x: 1\n"},
		{"duplicate name", "bodies:\n  - name: a\n  - name: a\n"},
		{"negative radius", "bodies:\n  - name: a\n    radius: -1\n"},
		{"negative world", "world:\n  w: -10\nbodies:\n  - name: a\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(writeConfig(t, c.content))
			require.Error(t, err)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	s, err := New(writeConfig(t, "bodies:\n  - name: a\n"))
	require.NoError(t, err)
	b := s.Bodies()[0]
	require.Equal(t, DefaultBodyType, b.Type)
	require.Equal(t, DefaultBodyRadius, b.Radius)
}

func TestStepStraight(t *testing.T) {
	s, err := New(writeConfig(t, `
bodies:
  - name: a
    heading: 0
    speed: 100
`))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Step(nil, float64(i)*0.1, 0.1))
	}
	b := s.Bodies()[0]
	require.InDelta(t, 100, b.Pose.X, 1e-9)
	require.InDelta(t, 0, b.Pose.Y, 1e-9)
}

func TestStepTurning(t *testing.T) {
	s, err := New(writeConfig(t, `
bodies:
  - name: a
    heading: 0
    turn_rate: 90
`))
	require.NoError(t, err)
	require.NoError(t, s.Step(nil, 0, 0.5))
	b := s.Bodies()[0]
	require.InDelta(t, 45, b.Pose.Orientation.Degrees(), 1e-9)
}

func TestStepFastTurn(t *testing.T) {
	s, err := New(writeConfig(t, `
bodies:
  - name: a
    heading: 0
    turn_rate: 270
`))
	require.NoError(t, err)
	// rates beyond 180 deg/s must keep their direction
	require.NoError(t, s.Step(nil, 0, 0.5))
	b := s.Bodies()[0]
	require.InDelta(t, 135, b.Pose.Orientation.Degrees(), 1e-9)
}

func TestMarkers(t *testing.T) {
	s, err := New(writeConfig(t, `
world:
  w: 1000
  h: 400
bodies:
  - name: car/1
    type: car
    x: 10
    y: 20
    heading: 90
    radius: 40
`))
	require.NoError(t, err)
	markers := s.Markers()
	require.Len(t, markers, 5)

	corners := make(map[string]bool)
	for _, m := range markers[:4] {
		require.Equal(t, "corner", m[viz.PropType])
		corners[m.ID()] = true
	}
	require.Len(t, corners, 4)

	m := markers[4]
	require.Equal(t, "car.1", m.ID())
	require.Equal(t, "car", m[viz.PropType])
	require.Equal(t, &viz.Pos{X: 10, Y: 20}, m[viz.PropOrigin])
	require.Equal(t, 40.0, m[viz.PropRadius])
	require.InDelta(t, 90, m[viz.PropRotate].(float64), 1e-9)

	// a second read reflects the same state
	require.Len(t, s.Markers(), 5)
}

func TestMarkersNoWorld(t *testing.T) {
	s, err := New(writeConfig(t, "bodies:\n  - name: a\n"))
	require.NoError(t, err)
	require.Len(t, s.Markers(), 1)
}
