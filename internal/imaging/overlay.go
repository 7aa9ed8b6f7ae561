package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

// Marker hues in degrees. Saturation and value are shared so the three
// priorities differ only by hue.
var markerHue = map[model.Priority]float64{
	model.PriorityHigh:   0,
	model.PriorityMedium: 40,
	model.PriorityLow:    120,
}

const (
	markerSaturation = 0.85
	markerValue      = 0.95
	unknownHue       = 210
)

// MarkerColor returns the overlay colour for an annotation priority.
func MarkerColor(p model.Priority) colorful.Color {
	hue, ok := markerHue[p]
	if !ok {
		hue = unknownHue
	}
	return colorful.Hsv(hue, markerSaturation, markerValue)
}

// MarkerHex is MarkerColor as "#rrggbb".
func MarkerHex(p model.Priority) string {
	return MarkerColor(p).Hex()
}

// DrawMarkers returns a copy of img with each annotation outlined in its
// priority colour. origin is the image-space position of img's top-left
// pixel, so a crop can be annotated with full-image coordinates. Points are
// drawn as a square of side size with a centre cross.
func DrawMarkers(img image.Image, annotations []model.Annotation, origin image.Point, size int) *image.NRGBA {
	dst := imaging.Clone(img)
	if size <= 0 {
		size = 9
	}

	for _, a := range annotations {
		r, g, b := MarkerColor(a.Priority).RGB255()
		c := color.NRGBA{R: r, G: g, B: b, A: 255}
		x := int(math.Round(a.Coordinates.X)) - origin.X
		y := int(math.Round(a.Coordinates.Y)) - origin.Y

		if a.Coordinates.Width != nil && a.Coordinates.Height != nil {
			w := int(math.Round(*a.Coordinates.Width))
			h := int(math.Round(*a.Coordinates.Height))
			strokeRect(dst, image.Rect(x, y, x+w, y+h), c)
			continue
		}

		half := size / 2
		strokeRect(dst, image.Rect(x-half, y-half, x-half+size, y-half+size), c)
		for d := -half; d <= half; d++ {
			dst.Set(x+d, y, c)
			dst.Set(x, y+d, c)
		}
	}
	return dst
}

// strokeRect draws a one-pixel outline just inside r. Pixels outside dst are
// skipped by Set.
func strokeRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		dst.Set(r.Min.X, r.Min.Y, c)
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, c)
		dst.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, c)
		dst.Set(r.Max.X-1, y, c)
	}
}
