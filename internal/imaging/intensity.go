package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-review-mcp/internal/view"
)

// IntensityStats summarises grayscale intensity over a region.
//
// Suggested is a windowing that spans mean ± 2 standard deviations, limited to
// the observed range, so the region's tissue fills the display contrast.
type IntensityStats struct {
	Region    Rect           `json:"region"`
	Pixels    int            `json:"pixels"`
	Min       float64        `json:"min"`
	Max       float64        `json:"max"`
	Mean      float64        `json:"mean"`
	StdDev    float64        `json:"std_dev"`
	Suggested view.Windowing `json:"suggested_windowing"`
}

// SampleIntensity returns the 8-bit luminance at (x, y).
func SampleIntensity(img image.Image, x, y int) (uint8, error) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y, nil
}

// RegionIntensity computes intensity statistics over region, which is clipped
// to the image bounds.
func RegionIntensity(img image.Image, region image.Rectangle) (*IntensityStats, error) {
	clipped := region.Intersect(img.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("region %v does not overlap the image", region)
	}
	region = clipped

	values := make([]float64, 0, region.Dx()*region.Dy())
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			v := float64(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			values = append(values, v)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		// Single pixel.
		std = 0
	}

	wlo := math.Max(lo, mean-2*std)
	whi := math.Min(hi, mean+2*std)
	return &IntensityStats{
		Region: rectOf(region),
		Pixels: len(values),
		Min:    lo,
		Max:    hi,
		Mean:   round2(mean),
		StdDev: round2(std),
		Suggested: view.Windowing{
			Level: round2((wlo + whi) / 2),
			Width: round2(math.Max(1, whi-wlo)),
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
