// Package annotation constructs validated annotations.
//
// New is the only way the rest of the module creates a model.Annotation. It
// validates every input before building anything, so a rejected request never
// leaves a partial annotation behind.
package annotation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

// Bounds is the size of the image an annotation is placed on.
type Bounds struct {
	Width  float64
	Height float64
}

// Unbounded accepts any non-negative coordinate. Callers working against a
// real image must pass its actual size instead.
var Unbounded = Bounds{Width: math.Inf(1), Height: math.Inf(1)}

// ImageBounds returns the bounds of img.
func ImageBounds(img model.MedicalImage) Bounds {
	return Bounds{Width: float64(img.Width), Height: float64(img.Height)}
}

// Request carries the reviewer-supplied fields of a new annotation.
type Request struct {
	ImageID     string
	Coordinates model.Coordinates
	Type        model.AnnotationType
	Category    model.Category
	Priority    model.Priority
	// Metadata is copied into the annotation; nil is allowed.
	Metadata map[string]any
}

// now is replaced in tests.
var now = time.Now

// New validates req against bounds and returns the resulting annotation.
//
// Validation runs in a fixed order (image id, coordinates, type, category,
// priority) and stops at the first failure, returning a
// *reviewerr.ValidationError. On success x and y are clamped into the image
// (a no-op after validation) and the annotation gets a fresh identifier and
// matching creation and update timestamps.
func New(req Request, bounds Bounds) (model.Annotation, error) {
	if err := ValidateImageID(req.ImageID); err != nil {
		return model.Annotation{}, err
	}
	if err := ValidateCoordinates(req.Coordinates, bounds); err != nil {
		return model.Annotation{}, err
	}
	if err := ValidateType(req.Type); err != nil {
		return model.Annotation{}, err
	}
	if err := ValidateCategory(req.Category); err != nil {
		return model.Annotation{}, err
	}
	if err := ValidatePriority(req.Priority); err != nil {
		return model.Annotation{}, err
	}

	coords := req.Coordinates.Clone()
	coords.X = clamp(coords.X, 0, bounds.Width)
	coords.Y = clamp(coords.Y, 0, bounds.Height)

	metadata := make(map[string]any, len(req.Metadata))
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	ts := now()
	return model.Annotation{
		ID:          newID(ts),
		ImageID:     req.ImageID,
		Type:        req.Type,
		Category:    req.Category,
		Priority:    req.Priority,
		Coordinates: coords,
		Metadata:    metadata,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// newID combines a millisecond timestamp with a random suffix.
func newID(ts time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("ann-%d-%s", ts.UnixMilli(), suffix)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
