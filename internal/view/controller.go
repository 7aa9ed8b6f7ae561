package view

import "math"

// Controller owns the single view state of a session.
// All mutators are total: out-of-range zoom is clamped, everything else is
// stored as given.
type Controller struct {
	state State
}

// NewController returns a controller in the default state.
func NewController() *Controller {
	return &Controller{state: DefaultState()}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// SetOrientation replaces the orientation.
func (c *Controller) SetOrientation(o Orientation) {
	c.state.Orientation = o
}

// SetZoom stores zoom clamped to [MinZoom, MaxZoom].
func (c *Controller) SetZoom(zoom float64) {
	c.state.Zoom = ClampZoom(zoom, MinZoom, MaxZoom)
}

// SetPan replaces the pan offset. Panning is unbounded.
func (c *Controller) SetPan(x, y float64) {
	c.state.Pan = Point{X: x, Y: y}
}

// SetWindowing replaces the windowing parameters without range checks.
func (c *Controller) SetWindowing(level, width float64) {
	c.state.Windowing = Windowing{Level: level, Width: width}
}

// Reset restores DefaultState.
func (c *Controller) Reset() {
	c.state = DefaultState()
}

// ClampZoom limits zoom to [lo, hi]. NaN maps to lo.
func ClampZoom(zoom, lo, hi float64) float64 {
	if math.IsNaN(zoom) {
		return lo
	}
	return math.Max(lo, math.Min(hi, zoom))
}
