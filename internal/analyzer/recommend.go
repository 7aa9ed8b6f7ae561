package analyzer

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/view"
)

// Confidence grades a recommendation.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ViewRecommendation suggests an orientation for the current context.
type ViewRecommendation struct {
	Orientation view.Orientation `json:"orientation"`
	Reason      string           `json:"reason"`
	Confidence  Confidence       `json:"confidence"`
}

// AnnotationRecommendation suggests how to classify a new annotation.
type AnnotationRecommendation struct {
	SuggestedCategory model.Category `json:"suggested_category"`
	SuggestedPriority model.Priority `json:"suggested_priority"`
	Reason            string         `json:"reason"`
}

// Analysis bundles the recommendations shown alongside the image.
type Analysis struct {
	RecommendedView  ViewRecommendation `json:"recommended_view"`
	SuggestedFocus   []string           `json:"suggested_focus"`
	MetadataInsights []string           `json:"metadata_insights"`
}

// Analyze runs RecommendedView, FocusSuggestions and MetadataInsights.
func Analyze(img model.MedicalImage, annotations []model.Annotation) Analysis {
	return Analysis{
		RecommendedView:  RecommendedView(img, annotations),
		SuggestedFocus:   FocusSuggestions(img, annotations),
		MetadataInsights: MetadataInsights(img),
	}
}

// RecommendedView picks an orientation. Without annotations the modality
// decides; with annotations, high priority beats findings beats the default.
func RecommendedView(img model.MedicalImage, annotations []model.Annotation) ViewRecommendation {
	if len(annotations) == 0 {
		return initialRecommendation(img)
	}

	hasHighPriority := slices.ContainsFunc(annotations, func(a model.Annotation) bool {
		return a.Priority == model.PriorityHigh
	})
	if hasHighPriority {
		return ViewRecommendation{
			Orientation: view.Sagittal,
			Reason:      "Sagittal view recommended for high-priority findings",
			Confidence:  ConfidenceHigh,
		}
	}

	hasFindings := slices.ContainsFunc(annotations, func(a model.Annotation) bool {
		return a.Category == model.CategoryFinding
	})
	if hasFindings {
		return ViewRecommendation{
			Orientation: view.Coronal,
			Reason:      "Coronal view recommended for detailed finding review",
			Confidence:  ConfidenceMedium,
		}
	}

	return ViewRecommendation{
		Orientation: view.Axial,
		Reason:      "Axial view suitable for current context",
		Confidence:  ConfidenceMedium,
	}
}

func initialRecommendation(img model.MedicalImage) ViewRecommendation {
	switch img.Modality {
	case model.ModalityCT:
		return ViewRecommendation{
			Orientation: view.Axial,
			Reason:      "Axial view is standard for CT scans - provides cross-sectional anatomy",
			Confidence:  ConfidenceHigh,
		}
	case model.ModalityMRI:
		if st, ok := StudyType(img); ok && (st == "brain" || st == "spine") {
			return ViewRecommendation{
				Orientation: view.Sagittal,
				Reason:      "Sagittal view is optimal for brain and spine MRI studies",
				Confidence:  ConfidenceHigh,
			}
		}
		return ViewRecommendation{
			Orientation: view.Axial,
			Reason:      "Axial view is standard starting point for MRI",
			Confidence:  ConfidenceMedium,
		}
	case model.ModalityUS:
		return ViewRecommendation{
			Orientation: view.Axial,
			Reason:      "Axial view is standard for ultrasound imaging",
			Confidence:  ConfidenceMedium,
		}
	default:
		return ViewRecommendation{
			Orientation: view.Axial,
			Reason:      "Default axial view for initial review",
			Confidence:  ConfidenceLow,
		}
	}
}

// AnnotationContext suggests a category and priority for a point in image space.
// Central points suggest a finding, peripheral ones a low-priority landmark.
func AnnotationContext(img model.MedicalImage, point model.Coordinates) AnnotationRecommendation {
	nx, ny := normalize(img, point)
	central := isCentral(nx, ny)

	if central {
		priority := model.PriorityMedium
		if modalityPriority(img.Modality, central) == model.PriorityHigh {
			priority = model.PriorityHigh
		}
		reason := fmt.Sprintf("Central region (%d%%, %d%%) often contains significant findings. %s",
			percent(nx), percent(ny), modalityReason(img.Modality))
		return AnnotationRecommendation{
			SuggestedCategory: model.CategoryFinding,
			SuggestedPriority: priority,
			Reason:            strings.TrimSpace(reason),
		}
	}

	return AnnotationRecommendation{
		SuggestedCategory: model.CategoryLandmark,
		SuggestedPriority: model.PriorityLow,
		Reason: fmt.Sprintf("Peripheral region typically contains anatomical landmarks. Position: %d%%, %d%%",
			percent(nx), percent(ny)),
	}
}

// modalityPriority is the priority implied by the modality and whether the
// point is central.
func modalityPriority(m model.Modality, central bool) model.Priority {
	switch m {
	case model.ModalityCT, model.ModalityMRI:
		if central {
			return model.PriorityHigh
		}
		return model.PriorityMedium
	case model.ModalityUS:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func modalityReason(m model.Modality) string {
	switch m {
	case model.ModalityCT:
		return "CT scans: Central regions may show pathology in organs or vessels."
	case model.ModalityMRI:
		return "MRI scans: Central regions often contain critical anatomical structures."
	case model.ModalityUS:
		return "Ultrasound: Central regions typically show organ parenchyma."
	default:
		return ""
	}
}

func normalize(img model.MedicalImage, p model.Coordinates) (float64, float64) {
	if img.Width <= 0 || img.Height <= 0 {
		return 0, 0
	}
	return p.X / float64(img.Width), p.Y / float64(img.Height)
}

func isCentral(nx, ny float64) bool {
	return nx > 0.25 && nx < 0.75 && ny > 0.25 && ny < 0.75
}

// percent rounds half up, matching how the hint text has always been shown.
func percent(v float64) int {
	return int(math.Floor(v*100 + 0.5))
}

// FocusSuggestions returns canned modality tips before any annotation exists
// and count-based reminders afterwards.
func FocusSuggestions(img model.MedicalImage, annotations []model.Annotation) []string {
	suggestions := []string{}

	if len(annotations) == 0 {
		switch img.Modality {
		case model.ModalityCT:
			suggestions = append(suggestions,
				"Review central regions for organ pathology",
				"Check for contrast enhancement patterns")
		case model.ModalityMRI:
			suggestions = append(suggestions,
				"Examine T1/T2 signal characteristics",
				"Look for symmetry in bilateral structures")
		case model.ModalityUS:
			suggestions = append(suggestions,
				"Assess echogenicity patterns",
				"Check for shadowing or enhancement")
		}
		return suggestions
	}

	var findings, highPriority int
	for _, a := range annotations {
		if a.Category == model.CategoryFinding {
			findings++
		}
		if a.Priority == model.PriorityHigh {
			highPriority++
		}
	}
	if findings > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("%d finding(s) identified - review surrounding areas", findings))
	}
	if highPriority > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("%d high-priority annotation(s) require detailed review", highPriority))
	}
	return suggestions
}
