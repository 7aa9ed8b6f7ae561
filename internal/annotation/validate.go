package annotation

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/reviewerr"
)

// MaxImageIDLength is the longest accepted image identifier.
const MaxImageIDLength = 255

// MaxStringLength is the default cap applied by SanitizeString.
const MaxStringLength = 1000

// ValidateImageID checks that id is non-empty and at most MaxImageIDLength
// characters once surrounding whitespace is removed.
func ValidateImageID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return reviewerr.Validationf("Image ID must be a non-empty string")
	}
	if utf8.RuneCountInString(trimmed) > MaxImageIDLength {
		return reviewerr.Validationf("Image ID must be %d characters or less", MaxImageIDLength)
	}
	return nil
}

// ValidateCoordinates checks c against an image of the given size.
// The first failing rule wins; the order is x, y, width, height.
func ValidateCoordinates(c model.Coordinates, bounds Bounds) error {
	if !finite(c.X) {
		return reviewerr.Validationf("Coordinate x must be a finite number")
	}
	if !finite(c.Y) {
		return reviewerr.Validationf("Coordinate y must be a finite number")
	}
	if c.X < 0 || c.X > bounds.Width {
		return reviewerr.Validationf("Coordinate x must be between 0 and %v", bounds.Width)
	}
	if c.Y < 0 || c.Y > bounds.Height {
		return reviewerr.Validationf("Coordinate y must be between 0 and %v", bounds.Height)
	}

	if c.Width != nil {
		if !finite(*c.Width) || *c.Width < 0 {
			return reviewerr.Validationf("Width must be a non-negative finite number")
		}
		if c.X+*c.Width > bounds.Width {
			return reviewerr.Validationf("Region extends beyond image width")
		}
	}
	if c.Height != nil {
		if !finite(*c.Height) || *c.Height < 0 {
			return reviewerr.Validationf("Height must be a non-negative finite number")
		}
		if c.Y+*c.Height > bounds.Height {
			return reviewerr.Validationf("Region extends beyond image height")
		}
	}
	return nil
}

// ValidateType checks membership in the annotation type enumeration.
func ValidateType(t model.AnnotationType) error {
	if !t.Valid() {
		return reviewerr.Validationf("Type must be one of: %s", join(model.AnnotationTypes))
	}
	return nil
}

// ValidateCategory checks membership in the category enumeration.
func ValidateCategory(c model.Category) error {
	if !c.Valid() {
		return reviewerr.Validationf("Category must be one of: %s", join(model.Categories))
	}
	return nil
}

// ValidatePriority checks membership in the priority enumeration.
func ValidatePriority(p model.Priority) error {
	if !p.Valid() {
		return reviewerr.Validationf("Priority must be one of: %s", join(model.Priorities))
	}
	return nil
}

// SanitizeString trims s and truncates it to maxLength runes.
// A non-positive maxLength selects MaxStringLength.
func SanitizeString(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxStringLength
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	return string([]rune(s)[:maxLength])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
