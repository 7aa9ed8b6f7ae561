package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/view"
)

func fptr(v float64) *float64 { return &v }

func TestAnnotationRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 512, 512)

	tests := []struct {
		name   string
		coords model.Coordinates
		want   image.Rectangle
	}{
		{"point in the middle", model.Coordinates{X: 256, Y: 256}, image.Rect(224, 224, 288, 288)},
		{"point near the corner is clipped", model.Coordinates{X: 10, Y: 5}, image.Rect(0, 0, 42, 37)},
		{"region uses its extent", model.Coordinates{X: 100.5, Y: 50, Width: fptr(20), Height: fptr(10)}, image.Rect(100, 50, 121, 60)},
		{"region past the edge is clipped", model.Coordinates{X: 500, Y: 500, Width: fptr(30), Height: fptr(30)}, image.Rect(500, 500, 512, 512)},
		{"zero-size region at the edge", model.Coordinates{X: 512, Y: 512, Width: fptr(0), Height: fptr(0)}, image.Rect(511, 511, 512, 512)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnnotationRegion(model.Annotation{Coordinates: tt.coords}, bounds, 64)
			if got != tt.want {
				t.Errorf("AnnotationRegion = %v, want %v", got, tt.want)
			}
		})
	}
}

func decodePreview(t *testing.T, res *PreviewResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func TestRenderPreview(t *testing.T) {
	img := grayImage(200, 100)

	res, err := RenderPreview(img, image.Rect(10, 20, 60, 70), PreviewOptions{})
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	if res.Width != 50 || res.Height != 50 || res.MimeType != "image/png" {
		t.Errorf("result = %dx%d %s", res.Width, res.Height, res.MimeType)
	}
	if res.Region != (Rect{X1: 10, Y1: 20, X2: 60, Y2: 70}) {
		t.Errorf("region = %+v", res.Region)
	}

	out := decodePreview(t, res)
	// The first column of the crop is source column 10.
	r, _, _, _ := out.At(0, 0).RGBA()
	want := uint32(10*255/199) * 0x101
	if r != want {
		t.Errorf("pixel = %d, want %d", r, want)
	}
}

func TestRenderPreview_FitsMaxSize(t *testing.T) {
	res, err := RenderPreview(grayImage(400, 200), image.Rect(0, 0, 400, 200), PreviewOptions{MaxSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("fitted size = %dx%d, want 100x50", res.Width, res.Height)
	}

	small, err := RenderPreview(grayImage(40, 20), image.Rect(0, 0, 40, 20), PreviewOptions{MaxSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	if small.Width != 40 || small.Height != 20 {
		t.Errorf("small preview was resized to %dx%d", small.Width, small.Height)
	}
}

func TestRenderPreview_InvalidRegion(t *testing.T) {
	img := grayImage(50, 50)
	for _, r := range []image.Rectangle{image.Rect(0, 0, 60, 10), image.Rect(10, 10, 10, 20)} {
		if _, err := RenderPreview(img, r, PreviewOptions{}); err == nil {
			t.Errorf("region %v: expected error", r)
		}
	}
}

func TestApplyWindowing(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 1))
	for x, v := range []uint8{0, 100, 128, 156, 255} {
		src.Pix[x] = v
	}

	tests := []struct {
		name         string
		level, width float64
		want         []uint8
	}{
		{"full range is identity", 127.5, 255, []uint8{0, 100, 128, 156, 255}},
		{"narrow window stretches", 128, 56, []uint8{0, 0, 128, 255, 255}},
		{"zero width thresholds", 128, 0, []uint8{0, 0, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ApplyWindowing(src, tt.level, tt.width)
			for x, want := range tt.want {
				got := out.RGBAAt(x, 0)
				if got.R != want || got.G != want || got.B != want {
					t.Errorf("x=%d: got %v, want %d", x, got, want)
				}
			}
		})
	}
}

func TestRenderPreview_WithWindowingAndMarkers(t *testing.T) {
	img := grayImage(100, 100)
	anns := []model.Annotation{{
		ID:          "a",
		Priority:    model.PriorityHigh,
		Coordinates: model.Coordinates{X: 50, Y: 50},
	}}

	res, err := RenderPreview(img, image.Rect(40, 40, 60, 60), PreviewOptions{
		Windowing:  &view.Windowing{Level: 50, Width: 100},
		Markers:    anns,
		MarkerSize: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	out := decodePreview(t, res)
	// Marker centre lands at crop (10, 10).
	r, g, _, _ := out.At(10, 10).RGBA()
	if r>>8 < 200 || g>>8 > 100 {
		t.Errorf("marker centre colour r=%d g=%d, want red", r>>8, g>>8)
	}
}
