package imaging

import (
	"testing"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

func point(id string, x, y float64) model.Annotation {
	return model.Annotation{ID: id, Type: model.TypePoint, Coordinates: model.Coordinates{X: x, Y: y}}
}

func TestMeasureDistance(t *testing.T) {
	img := model.MedicalImage{ID: "img", Width: 100, Height: 200}

	tests := []struct {
		name     string
		a, b     model.Annotation
		distance float64
		angle    float64
		pctW     float64
		pctH     float64
	}{
		{"horizontal", point("a", 0, 0), point("b", 30, 0), 30, 0, 30, 15},
		{"vertical down", point("a", 10, 10), point("b", 10, 50), 40, 90, 40, 20},
		{"3-4-5", point("a", 0, 0), point("b", 3, 4), 5, 53.1, 5, 2.5},
		{"leftward", point("a", 50, 50), point("b", 20, 50), 30, 180, 30, 15},
		{"same point", point("a", 7, 7), point("b", 7, 7), 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := MeasureDistance(img, tt.a, tt.b)
			if err != nil {
				t.Fatalf("MeasureDistance failed: %v", err)
			}
			if res.DistancePixels != tt.distance {
				t.Errorf("distance = %v, want %v", res.DistancePixels, tt.distance)
			}
			if res.AngleDegrees != tt.angle {
				t.Errorf("angle = %v, want %v", res.AngleDegrees, tt.angle)
			}
			if res.DistancePercentWidth != tt.pctW || res.DistancePercentHeight != tt.pctH {
				t.Errorf("percent = %v/%v, want %v/%v", res.DistancePercentWidth, res.DistancePercentHeight, tt.pctW, tt.pctH)
			}
			if res.FromID != "a" || res.ToID != "b" {
				t.Errorf("ids = %s -> %s", res.FromID, res.ToID)
			}
			if res.DistanceMM != nil {
				t.Error("DistanceMM set without pixel spacing")
			}
		})
	}
}

func TestMeasureDistance_RegionCentre(t *testing.T) {
	img := model.MedicalImage{ID: "img", Width: 100, Height: 100}
	region := model.Annotation{ID: "r", Coordinates: model.Coordinates{X: 10, Y: 10, Width: fptr(20), Height: fptr(20)}}

	res, err := MeasureDistance(img, point("p", 20, 50), region)
	if err != nil {
		t.Fatal(err)
	}
	if res.DeltaX != 0 || res.DeltaY != -30 || res.DistancePixels != 30 {
		t.Errorf("result = %+v", res)
	}
}

func TestMeasureDistance_PixelSpacing(t *testing.T) {
	img := model.MedicalImage{ID: "img", Width: 100, Height: 100, Metadata: map[string]any{"pixelSpacing": 0.5}}
	res, err := MeasureDistance(img, point("a", 0, 0), point("b", 0, 25))
	if err != nil {
		t.Fatal(err)
	}
	if res.DistanceMM == nil || *res.DistanceMM != 12.5 {
		t.Errorf("DistanceMM = %v", res.DistanceMM)
	}

	img.Metadata["pixelSpacing"] = "0.5"
	res, _ = MeasureDistance(img, point("a", 0, 0), point("b", 0, 25))
	if res.DistanceMM != nil {
		t.Error("string spacing should be ignored")
	}
}

func TestMeasureDistance_NoDimensions(t *testing.T) {
	if _, err := MeasureDistance(model.MedicalImage{ID: "x"}, point("a", 0, 0), point("b", 1, 1)); err == nil {
		t.Error("expected error")
	}
}
