package interaction

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/image-review-mcp/internal/view"
)

// Container is the on-screen bounding box the image is drawn in, in the same
// client coordinates pointer events are reported in.
type Container struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the container.
func (c Container) Center() r2.Vec {
	return r2.Vec{X: c.Left + c.Width/2, Y: c.Top + c.Height/2}
}

// Size is an image's native dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

func (s Size) half() r2.Vec {
	return r2.Vec{X: s.Width / 2, Y: s.Height / 2}
}

// Transform maps between screen and image space for one view state.
// The image is centred in the container, shifted by pan, scaled by zoom.
type Transform struct {
	Container Container
	Image     Size
	Pan       r2.Vec
	Zoom      float64
}

// NewTransform captures the current view state.
func NewTransform(c Container, img Size, state view.State) Transform {
	return Transform{
		Container: c,
		Image:     img,
		Pan:       r2.Vec{X: state.Pan.X, Y: state.Pan.Y},
		Zoom:      state.Zoom,
	}
}

// ScreenToImageUnclamped maps a client point into image space without
// limiting it to the image.
func (t Transform) ScreenToImageUnclamped(p r2.Vec) r2.Vec {
	rel := r2.Sub(p, t.Container.Center())
	return r2.Add(r2.Scale(1/t.Zoom, r2.Sub(rel, t.Pan)), t.Image.half())
}

// ScreenToImage maps a client point into image space and clamps the result to
// [0, width] × [0, height].
func (t Transform) ScreenToImage(p r2.Vec) r2.Vec {
	q := t.ScreenToImageUnclamped(p)
	return r2.Vec{
		X: math.Max(0, math.Min(t.Image.Width, q.X)),
		Y: math.Max(0, math.Min(t.Image.Height, q.Y)),
	}
}

// ImageToScreen maps an image point to client coordinates. It is the exact
// inverse of ScreenToImageUnclamped; no clamping is applied.
func (t Transform) ImageToScreen(p r2.Vec) r2.Vec {
	scaled := r2.Scale(t.Zoom, r2.Sub(p, t.Image.half()))
	return r2.Add(r2.Add(scaled, t.Container.Center()), t.Pan)
}

// ScaleLength converts an image-space length to screen pixels.
func (t Transform) ScaleLength(v float64) float64 {
	return v * t.Zoom
}
