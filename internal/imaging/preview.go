package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/view"
)

// Rect is an integer pixel rectangle, min inclusive and max exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func rectOf(r image.Rectangle) Rect {
	return Rect{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// PreviewOptions control RenderPreview.
type PreviewOptions struct {
	// MaxSize bounds the longest edge of the output. Zero keeps the crop size.
	MaxSize int
	// Windowing, when set, maps luminance through the level/width window.
	Windowing *view.Windowing
	// Markers are drawn over the crop. Their coordinates are in image space.
	Markers []model.Annotation
	// MarkerSize is the side of a point marker in source pixels.
	MarkerSize int
}

// PreviewResult is an encoded preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Region      Rect   `json:"region"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
}

// AnnotationRegion returns the source rectangle to preview for a. Regions use
// their own extent; points get a pointBox square centred on the point. The
// result is clipped to bounds and never empty for a point inside bounds.
func AnnotationRegion(a model.Annotation, bounds image.Rectangle, pointBox int) image.Rectangle {
	x, y := a.Coordinates.X, a.Coordinates.Y

	var r image.Rectangle
	if a.Coordinates.Width != nil && a.Coordinates.Height != nil {
		r = image.Rect(
			int(math.Floor(x)), int(math.Floor(y)),
			int(math.Ceil(x+*a.Coordinates.Width)), int(math.Ceil(y+*a.Coordinates.Height)),
		)
	} else {
		half := pointBox / 2
		cx, cy := int(math.Round(x)), int(math.Round(y))
		r = image.Rect(cx-half, cy-half, cx-half+pointBox, cy-half+pointBox)
	}

	r = r.Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		// Zero-size region at the far edge: widen to one pixel.
		p := image.Pt(
			min(bounds.Min.X+int(x), bounds.Max.X-1),
			min(bounds.Min.Y+int(y), bounds.Max.Y-1),
		)
		r = image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
	}
	return r
}

// RenderPreview crops region out of img, applies windowing and markers, fits
// the result into MaxSize and encodes it as PNG.
func RenderPreview(img image.Image, region image.Rectangle, opts PreviewOptions) (*PreviewResult, error) {
	bounds := img.Bounds()
	if !region.In(bounds) {
		return nil, fmt.Errorf("preview region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			region.Min.X, region.Min.Y, region.Max.X, region.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if region.Empty() {
		return nil, fmt.Errorf("preview region is empty")
	}

	var out image.Image = imaging.Crop(img, region)
	if opts.Windowing != nil {
		out = ApplyWindowing(out, opts.Windowing.Level, opts.Windowing.Width)
	}
	if len(opts.Markers) > 0 {
		out = DrawMarkers(out, opts.Markers, region.Min.Sub(bounds.Min), opts.MarkerSize)
	}
	if opts.MaxSize > 0 {
		b := out.Bounds()
		if b.Dx() > opts.MaxSize || b.Dy() > opts.MaxSize {
			out = imaging.Fit(out, opts.MaxSize, opts.MaxSize, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Region:      rectOf(region),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ApplyWindowing converts img to grayscale and maps each luminance value v
// through the window [level-width/2, level+width/2] onto 0..255. A
// non-positive width thresholds at level.
func ApplyWindowing(img image.Image, level, width float64) *image.RGBA {
	var lut [256]uint8
	lower := level - width/2
	for v := range lut {
		var out float64
		if width <= 0 {
			if float64(v) >= level {
				out = 255
			}
		} else {
			out = (float64(v) - lower) / width * 255
		}
		lut[v] = uint8(math.Max(0, math.Min(255, math.Round(out))))
	}

	gray := imaging.Grayscale(img)
	return adjust.Apply(gray, func(c color.RGBA) color.RGBA {
		v := lut[c.R]
		return color.RGBA{R: v, G: v, B: v, A: c.A}
	})
}
