package imaging

import (
	"fmt"
	"image"
	"testing"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

func TestMarkerColor(t *testing.T) {
	tests := []struct {
		priority model.Priority
		hex      string
	}{
		{model.PriorityHigh, "#f22424"},
		{model.PriorityMedium, "#f2ae24"},
		{model.PriorityLow, "#24f224"},
	}

	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			got := MarkerHex(tt.priority)
			if got != tt.hex {
				t.Errorf("MarkerHex(%s) = %s, want %s", tt.priority, got, tt.hex)
			}
			seen[got] = true
		})
	}
	if len(seen) != 3 {
		t.Errorf("priorities share colours: %v", seen)
	}
	if MarkerHex("urgent") == MarkerHex(model.PriorityHigh) {
		t.Error("unknown priority reuses the high colour")
	}
}

func TestDrawMarkers(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 40))
	anns := []model.Annotation{
		{Priority: model.PriorityHigh, Coordinates: model.Coordinates{X: 10, Y: 10}},
		{Priority: model.PriorityLow, Coordinates: model.Coordinates{X: 20, Y: 20, Width: fptr(10), Height: fptr(5)}},
	}

	out := DrawMarkers(src, anns, image.Point{}, 5)

	high := MarkerColor(model.PriorityHigh)
	hr, hg, hb := high.RGB255()
	if c := out.NRGBAAt(10, 10); c.R != hr || c.G != hg || c.B != hb {
		t.Errorf("point centre = %v, want %d,%d,%d", c, hr, hg, hb)
	}
	if c := out.NRGBAAt(8, 8); c.R != hr {
		t.Errorf("point box corner = %v", c)
	}

	lr, lg, _ := MarkerColor(model.PriorityLow).RGB255()
	for _, p := range []image.Point{{20, 20}, {29, 20}, {20, 24}, {29, 24}} {
		if c := out.NRGBAAt(p.X, p.Y); c.R != lr || c.G != lg {
			t.Errorf("region outline at %v = %v", p, c)
		}
	}
	if c := out.NRGBAAt(25, 22); c.R != 0 || c.G != 0 {
		t.Errorf("region interior painted: %v", c)
	}

	if src.GrayAt(10, 10).Y != 0 {
		t.Error("DrawMarkers modified its input")
	}
}

func TestDrawMarkers_MatchesMarkerHex(t *testing.T) {
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow, "urgent"} {
		t.Run(string(p), func(t *testing.T) {
			src := image.NewGray(image.Rect(0, 0, 9, 9))
			out := DrawMarkers(src, []model.Annotation{{Priority: p, Coordinates: model.Coordinates{X: 4, Y: 4}}}, image.Point{}, 5)
			c := out.NRGBAAt(4, 4)
			if got := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B); got != MarkerHex(p) {
				t.Errorf("drawn %s, MarkerHex %s", got, MarkerHex(p))
			}
		})
	}
}

func TestDrawMarkers_Origin(t *testing.T) {
	crop := image.NewGray(image.Rect(0, 0, 20, 20))
	anns := []model.Annotation{{Priority: model.PriorityMedium, Coordinates: model.Coordinates{X: 105, Y: 205}}}

	out := DrawMarkers(crop, anns, image.Pt(100, 200), 3)
	r, _, _ := MarkerColor(model.PriorityMedium).RGB255()
	if c := out.NRGBAAt(5, 5); c.R != r {
		t.Errorf("offset marker = %v", c)
	}

	// Markers outside the crop are skipped without panicking.
	far := []model.Annotation{{Priority: model.PriorityHigh, Coordinates: model.Coordinates{X: -50, Y: 900}}}
	DrawMarkers(crop, far, image.Point{}, 3)
}
