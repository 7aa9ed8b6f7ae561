package imaging

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

// DistanceResult contains measurement information between two annotations.
type DistanceResult struct {
	FromID                string  `json:"from_id"`
	ToID                  string  `json:"to_id"`
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                float64 `json:"delta_x"`
	DeltaY                float64 `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"`
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
	// DistanceMM is set when the image metadata carries a pixel spacing.
	DistanceMM *float64 `json:"distance_mm,omitempty"`
}

// Anchor is the point measurements are taken from: the point itself, or the
// centre of a region.
func Anchor(c model.Coordinates) r2.Vec {
	p := r2.Vec{X: c.X, Y: c.Y}
	if c.Width != nil && c.Height != nil {
		p = r2.Add(p, r2.Scale(0.5, r2.Vec{X: *c.Width, Y: *c.Height}))
	}
	return p
}

// MeasureDistance measures from a to b on img. Angles are in degrees with 0
// pointing right and 90 pointing down.
func MeasureDistance(img model.MedicalImage, a, b model.Annotation) (*DistanceResult, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("image %s has no dimensions", img.ID)
	}

	d := r2.Sub(Anchor(b.Coordinates), Anchor(a.Coordinates))
	distance := r2.Norm(d)
	angle := math.Atan2(d.Y, d.X) * 180 / math.Pi

	res := &DistanceResult{
		FromID:                a.ID,
		ToID:                  b.ID,
		DistancePixels:        math.Round(distance*100) / 100,
		DeltaX:                math.Round(d.X*100) / 100,
		DeltaY:                math.Round(d.Y*100) / 100,
		AngleDegrees:          math.Round(angle*10) / 10,
		DistancePercentWidth:  math.Round(distance/float64(img.Width)*1000) / 10,
		DistancePercentHeight: math.Round(distance/float64(img.Height)*1000) / 10,
	}

	if spacing, ok := pixelSpacing(img.Metadata); ok {
		mm := math.Round(distance*spacing*100) / 100
		res.DistanceMM = &mm
	}
	return res, nil
}

// pixelSpacing reads a positive "pixelSpacing" metadata value in mm/pixel.
func pixelSpacing(md map[string]any) (float64, bool) {
	var v float64
	switch s := md["pixelSpacing"].(type) {
	case float64:
		v = s
	case int:
		v = float64(s)
	default:
		return 0, false
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
