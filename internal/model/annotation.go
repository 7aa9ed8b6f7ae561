package model

import "time"

// AnnotationType distinguishes a single point from a rectangular region.
type AnnotationType string

const (
	TypePoint  AnnotationType = "point"
	TypeRegion AnnotationType = "region"
)

// AnnotationTypes lists the valid types in display order.
var AnnotationTypes = []AnnotationType{TypePoint, TypeRegion}

// Valid reports whether t is a member of the closed enumeration.
func (t AnnotationType) Valid() bool {
	switch t {
	case TypePoint, TypeRegion:
		return true
	}
	return false
}

// Category classifies what an annotation marks.
type Category string

const (
	CategoryFinding     Category = "finding"
	CategoryLandmark    Category = "landmark"
	CategoryMeasurement Category = "measurement"
	CategoryOther       Category = "other"
)

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryFinding, CategoryLandmark, CategoryMeasurement, CategoryOther}

// Valid reports whether c is a member of the closed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinding, CategoryLandmark, CategoryMeasurement, CategoryOther:
		return true
	}
	return false
}

// Priority is the reviewer-assigned urgency of an annotation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a member of the closed enumeration.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Coordinates locate an annotation in image-space pixels.
// Width and Height are set only for regions.
type Coordinates struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Clone returns a copy that does not alias the optional size fields.
func (c Coordinates) Clone() Coordinates {
	if c.Width != nil {
		w := *c.Width
		c.Width = &w
	}
	if c.Height != nil {
		h := *c.Height
		c.Height = &h
	}
	return c
}

// Annotation is a reviewer-placed mark on an image.
//
// Annotations are created by annotation.New and never mutated afterwards; the
// only lifecycle event after creation is removal from the workflow state.
type Annotation struct {
	ID          string         `json:"id"`
	ImageID     string         `json:"image_id"`
	Type        AnnotationType `json:"type"`
	Category    Category       `json:"category"`
	Priority    Priority       `json:"priority"`
	Coordinates Coordinates    `json:"coordinates"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Clone returns a deep copy of a.
func (a Annotation) Clone() Annotation {
	a.Coordinates = a.Coordinates.Clone()
	a.Metadata = cloneMetadata(a.Metadata)
	return a
}

// CloneAnnotations deep-copies a slice of annotations, preserving order.
func CloneAnnotations(in []Annotation) []Annotation {
	out := make([]Annotation, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
