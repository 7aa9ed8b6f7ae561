package view

import (
	"math"
	"testing"
)

func TestNewController_Defaults(t *testing.T) {
	c := NewController()
	got := c.State()
	want := State{Orientation: Axial, Zoom: 1.0, Pan: Point{}, Windowing: Windowing{Level: 0, Width: 255}}
	if got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestState_IsSnapshot(t *testing.T) {
	c := NewController()
	s := c.State()
	s.Zoom = 4
	s.Pan.X = 100
	s.Orientation = Coronal

	if got := c.State(); got != DefaultState() {
		t.Errorf("mutating the snapshot changed the controller: %+v", got)
	}
}

func TestSetZoom_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 2.5, 2.5},
		{"lower bound", 0.1, 0.1},
		{"below", 0.01, 0.1},
		{"negative", -3, 0.1},
		{"upper bound", 5.0, 5.0},
		{"above", 12, 5.0},
		{"infinite", math.Inf(1), 5.0},
		{"nan", math.NaN(), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			c.SetZoom(tt.in)
			if got := c.State().Zoom; got != tt.want {
				t.Errorf("zoom = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetters(t *testing.T) {
	c := NewController()
	c.SetOrientation(Sagittal)
	c.SetPan(-5000, 1e6)
	c.SetWindowing(40, 400)

	s := c.State()
	if s.Orientation != Sagittal {
		t.Errorf("orientation = %s", s.Orientation)
	}
	if s.Pan != (Point{X: -5000, Y: 1e6}) {
		t.Errorf("pan = %+v", s.Pan)
	}
	if s.Windowing != (Windowing{Level: 40, Width: 400}) {
		t.Errorf("windowing = %+v", s.Windowing)
	}

	c.SetWindowing(-1000, -1)
	if s := c.State(); s.Windowing != (Windowing{Level: -1000, Width: -1}) {
		t.Errorf("windowing should pass through, got %+v", s.Windowing)
	}

	c.Reset()
	if got := c.State(); got != DefaultState() {
		t.Errorf("after Reset state = %+v", got)
	}
}

func TestParseOrientation(t *testing.T) {
	for _, o := range Orientations {
		got, err := ParseOrientation(string(o))
		if err != nil || got != o {
			t.Errorf("ParseOrientation(%q) = %q, %v", o, got, err)
		}
	}
	if _, err := ParseOrientation("oblique"); err == nil {
		t.Error("oblique accepted")
	}
}
