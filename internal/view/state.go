// Package view holds the display state of a review session: orientation,
// zoom, pan and intensity windowing.
package view

import "fmt"

// Orientation is the anatomical viewing plane.
type Orientation string

const (
	Axial    Orientation = "axial"
	Sagittal Orientation = "sagittal"
	Coronal  Orientation = "coronal"
)

// Orientations lists every orientation in display order.
var Orientations = []Orientation{Axial, Sagittal, Coronal}

// ParseOrientation converts protocol input to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(s); o {
	case Axial, Sagittal, Coronal:
		return o, nil
	}
	return "", fmt.Errorf("invalid orientation: %s (must be axial, sagittal, or coronal)", s)
}

// Zoom limits applied by Controller.SetZoom.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Point is a pan offset in screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Windowing maps stored intensities to displayed contrast.
type Windowing struct {
	Level float64 `json:"level"`
	Width float64 `json:"width"`
}

// State is a snapshot of the view. It contains no references, so a copy can
// be handed out freely.
type State struct {
	Orientation Orientation `json:"orientation"`
	Zoom        float64     `json:"zoom"`
	Pan         Point       `json:"pan"`
	Windowing   Windowing   `json:"windowing"`
}

// DefaultState is the state of a fresh or reset view.
func DefaultState() State {
	return State{
		Orientation: Axial,
		Zoom:        1.0,
		Pan:         Point{X: 0, Y: 0},
		Windowing:   Windowing{Level: 0, Width: 255},
	}
}
