// Package model defines the data shared by every layer of a review session:
// the loaded medical image and the annotations placed on it.
//
// Values in this package are plain data. Construction rules (validation,
// identifier generation) live in the annotation package, and ownership of
// annotations belongs to the workflow controller.
package model

import "strings"

// Modality is the acquisition technique of a medical image.
//
// Only CT, MRI and US are produced by this server, but the type is an open
// string so that images tagged with anything else can still be reviewed; the
// analyzer gives such images a low-confidence default recommendation.
type Modality string

const (
	ModalityCT  Modality = "CT"
	ModalityMRI Modality = "MRI"
	ModalityUS  Modality = "US"
)

// ParseModality normalises user input ("ct", " Mri ") to a Modality.
// Unrecognised values are returned upper-cased and unchanged otherwise.
func ParseModality(s string) Modality {
	m := Modality(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case "ULTRASOUND":
		return ModalityUS
	case "MR":
		return ModalityMRI
	}
	return m
}

// Known reports whether m is one of the supported modalities.
func (m Modality) Known() bool {
	switch m {
	case ModalityCT, ModalityMRI, ModalityUS:
		return true
	}
	return false
}

// MedicalImage is a single image under review.
//
// Width and Height are in pixels and always positive. PixelSource is an opaque
// reference to where the pixels came from (a file path for images loaded by
// this server). Metadata holds free-form study fields such as studyDate,
// seriesNumber, sliceThickness, studyType, bodyPart and seriesDescription.
type MedicalImage struct {
	ID          string         `json:"id"`
	Modality    Modality       `json:"modality"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	PixelSource string         `json:"pixel_source,omitempty"`
	Metadata    map[string]any `json:"metadata"`
}

// Clone returns a copy of the image that shares no mutable state with img.
func (img MedicalImage) Clone() MedicalImage {
	img.Metadata = cloneMetadata(img.Metadata)
	return img
}

func cloneMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the containers a JSON decode can produce.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMetadata(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
