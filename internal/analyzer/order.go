package analyzer

import (
	"sort"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

func priorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 3
	case model.PriorityMedium:
		return 2
	case model.PriorityLow:
		return 1
	}
	return 0
}

func categoryRank(c model.Category) int {
	switch c {
	case model.CategoryFinding:
		return 4
	case model.CategoryMeasurement:
		return 3
	case model.CategoryLandmark:
		return 2
	case model.CategoryOther:
		return 1
	}
	return 0
}

// OrderAnnotations returns a sorted copy: highest priority first, then by
// category (finding, measurement, landmark, other). Equal keys keep their
// input order.
func OrderAnnotations(annotations []model.Annotation) []model.Annotation {
	out := model.CloneAnnotations(annotations)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priorityRank(out[i].Priority), priorityRank(out[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return categoryRank(out[i].Category) > categoryRank(out[j].Category)
	})
	return out
}

// AnnotationGroup is the set of annotations sharing a category and priority.
type AnnotationGroup struct {
	Category    model.Category     `json:"category"`
	Priority    model.Priority     `json:"priority"`
	Annotations []model.Annotation `json:"annotations"`
}

// GroupAnnotations groups by (category, priority). Groups appear in the order
// their key was first seen; members keep input order.
func GroupAnnotations(annotations []model.Annotation) []AnnotationGroup {
	type key struct {
		category model.Category
		priority model.Priority
	}

	groups := []AnnotationGroup{}
	index := make(map[key]int)
	for _, a := range annotations {
		k := key{a.Category, a.Priority}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, AnnotationGroup{Category: a.Category, Priority: a.Priority})
		}
		groups[i].Annotations = append(groups[i].Annotations, a.Clone())
	}
	return groups
}
