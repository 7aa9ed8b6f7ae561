package analyzer

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

// Metadata keys read by the analyzer.
const (
	KeyStudyDate         = "studyDate"
	KeySeriesNumber      = "seriesNumber"
	KeySliceThickness    = "sliceThickness"
	KeyStudyType         = "studyType"
	KeyBodyPart          = "bodyPart"
	KeySeriesDescription = "seriesDescription"
)

// studyKeywords maps description keywords to a study type, checked in order.
var studyKeywords = []struct {
	studyType string
	keywords  []string
}{
	{"brain", []string{"brain", "head"}},
	{"spine", []string{"spine", "spinal"}},
	{"chest", []string{"chest", "thorax"}},
	{"abdomen", []string{"abdomen", "abdominal"}},
}

// StudyType resolves the study type of img, reporting false when none of the
// lookup chain yields a value.
func StudyType(img model.MedicalImage) (string, bool) {
	if v, ok := metadataString(img.Metadata, KeyStudyType); ok {
		return v, true
	}
	if v, ok := metadataString(img.Metadata, KeyBodyPart); ok {
		return v, true
	}
	if desc, ok := metadataString(img.Metadata, KeySeriesDescription); ok {
		desc = strings.ToLower(desc)
		for _, sk := range studyKeywords {
			for _, kw := range sk.keywords {
				if strings.Contains(desc, kw) {
					return sk.studyType, true
				}
			}
		}
	}
	return "", false
}

// metadataString returns the string form of a present metadata field.
// Absent, nil, empty, zero and false values count as not present.
func metadataString(md map[string]any, key string) (string, bool) {
	v, ok := md[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case bool:
		return "true", t
	case float64:
		return fmt.Sprint(t), t != 0
	case int:
		return fmt.Sprint(t), t != 0
	case int64:
		return fmt.Sprint(t), t != 0
	}
	return fmt.Sprint(v), true
}

// MetadataInsights lists one line per present field among studyDate,
// seriesNumber and sliceThickness, then the study type, then a shape hint
// derived from the aspect ratio.
func MetadataInsights(img model.MedicalImage) []string {
	insights := []string{}

	if v, ok := metadataString(img.Metadata, KeyStudyDate); ok {
		insights = append(insights, "Study date: "+v)
	}
	if v, ok := metadataString(img.Metadata, KeySeriesNumber); ok {
		insights = append(insights, "Series: "+v)
	}
	if v, ok := metadataString(img.Metadata, KeySliceThickness); ok {
		insights = append(insights, "Slice thickness: "+v+"mm")
	}
	if st, ok := StudyType(img); ok {
		insights = append(insights, "Study type: "+st)
	}

	if img.Width > 0 && img.Height > 0 {
		aspect := float64(img.Width) / float64(img.Height)
		switch {
		case aspect > 1.2:
			insights = append(insights, "Wide format image - may indicate panoramic view")
		case aspect < 0.8:
			insights = append(insights, "Tall format image - may indicate sagittal/coronal view")
		}
	}

	return insights
}
