// Package workflow implements the guided review sequence
// Overview → FocusAreas → DetailedReview → Summary.
//
// The controller decides which steps are reachable from the current state and
// owns the session's annotation collection. Invalid transitions are reported
// with a false return value and never change state.
package workflow

import "fmt"

// Step is one stage of the review. Steps are ordered; the zero value is Overview.
type Step int

const (
	Overview Step = iota
	FocusAreas
	DetailedReview
	Summary
)

// Steps lists every step in review order.
var Steps = []Step{Overview, FocusAreas, DetailedReview, Summary}

// String returns the wire name of s.
func (s Step) String() string {
	switch s {
	case Overview:
		return "overview"
	case FocusAreas:
		return "focus"
	case DetailedReview:
		return "detail"
	case Summary:
		return "summary"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the four review steps.
func (s Step) Valid() bool {
	return s >= Overview && s <= Summary
}

// MarshalText encodes s by its wire name.
func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid step: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name produced by MarshalText.
func (s *Step) UnmarshalText(b []byte) error {
	parsed, err := ParseStep(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStep accepts the wire names plus the long forms used in UIs
// ("focus_areas", "detailed_review").
func ParseStep(name string) (Step, error) {
	switch name {
	case "overview":
		return Overview, nil
	case "focus", "focus_areas":
		return FocusAreas, nil
	case "detail", "detailed_review":
		return DetailedReview, nil
	case "summary":
		return Summary, nil
	}
	return 0, fmt.Errorf("unknown step: %s (must be overview, focus, detail, or summary)", name)
}

// Description returns the fixed human-readable description of s.
func (s Step) Description() string {
	switch s {
	case Overview:
		return "Initial image overview and orientation"
	case FocusAreas:
		return "Identify and mark areas of interest"
	case DetailedReview:
		return "Detailed examination and annotation"
	case Summary:
		return "Review summary and findings"
	}
	return ""
}
