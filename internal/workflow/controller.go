package workflow

import (
	"slices"

	"github.com/ironsheep/image-review-mcp/internal/model"
)

// State is a snapshot of the workflow. Every field is a deep copy.
type State struct {
	CurrentStep  Step                `json:"current_step"`
	CurrentImage *model.MedicalImage `json:"current_image"`
	Annotations  []model.Annotation  `json:"annotations"`
	IsComplete   bool                `json:"is_complete"`
	StepHistory  []Step              `json:"step_history"`
}

// Controller owns the workflow state of one session.
type Controller struct {
	currentStep  Step
	currentImage *model.MedicalImage
	annotations  []model.Annotation
	isComplete   bool
	stepHistory  []Step
}

// NewController starts a workflow at Overview with no image.
func NewController() *Controller {
	return &Controller{
		currentStep: Overview,
		annotations: []model.Annotation{},
		stepHistory: []Step{Overview},
	}
}

// State returns a deep copy of the workflow state.
func (c *Controller) State() State {
	var img *model.MedicalImage
	if c.currentImage != nil {
		cp := c.currentImage.Clone()
		img = &cp
	}
	return State{
		CurrentStep:  c.currentStep,
		CurrentImage: img,
		Annotations:  model.CloneAnnotations(c.annotations),
		IsComplete:   c.isComplete,
		StepHistory:  slices.Clone(c.stepHistory),
	}
}

// CurrentStep returns the active step.
func (c *Controller) CurrentStep() Step {
	return c.currentStep
}

// CurrentImage returns a copy of the loaded image, if any.
func (c *Controller) CurrentImage() (model.MedicalImage, bool) {
	if c.currentImage == nil {
		return model.MedicalImage{}, false
	}
	return c.currentImage.Clone(), true
}

// Annotations returns a deep copy of the annotation collection in insertion order.
func (c *Controller) Annotations() []model.Annotation {
	return model.CloneAnnotations(c.annotations)
}

// IsComplete reports whether Complete has been called.
func (c *Controller) IsComplete() bool {
	return c.isComplete
}

// LoadImage makes img the current image and restarts the review at Overview
// with a fresh history. Existing annotations are kept; callers wanting
// per-image isolation must call ClearAnnotations.
func (c *Controller) LoadImage(img model.MedicalImage) {
	cp := img.Clone()
	c.currentImage = &cp
	c.currentStep = Overview
	c.stepHistory = []Step{Overview}
}

// AddAnnotation appends ann. The current step is not changed.
func (c *Controller) AddAnnotation(ann model.Annotation) {
	c.annotations = append(c.annotations, ann.Clone())
}

// RemoveAnnotation drops every annotation with the given id and reports
// whether any was removed.
func (c *Controller) RemoveAnnotation(id string) bool {
	before := len(c.annotations)
	c.annotations = slices.DeleteFunc(c.annotations, func(a model.Annotation) bool {
		return a.ID == id
	})
	return len(c.annotations) != before
}

// ClearAnnotations removes every annotation and returns how many were dropped.
func (c *Controller) ClearAnnotations() int {
	n := len(c.annotations)
	c.annotations = []model.Annotation{}
	return n
}

// CanGoToStep reports whether GoToStep(step) would succeed.
//
// Rules, in order: nothing is reachable once complete; Overview is always
// reachable; visited steps stay reachable; any step at or before the current
// one is reachable; the next step is reachable when its prerequisite holds
// (an image for FocusAreas, at least one annotation for DetailedReview and
// Summary); longer forward jumps are rejected.
func (c *Controller) CanGoToStep(step Step) bool {
	if c.isComplete {
		return false
	}
	if !step.Valid() {
		return false
	}
	if step == Overview {
		return true
	}
	if slices.Contains(c.stepHistory, step) {
		return true
	}
	if step <= c.currentStep {
		return true
	}
	if step == c.currentStep+1 {
		return c.prerequisiteMet(step)
	}
	return false
}

func (c *Controller) prerequisiteMet(step Step) bool {
	switch step {
	case FocusAreas:
		return c.currentImage != nil
	case DetailedReview, Summary:
		return len(c.annotations) > 0
	case Overview:
		return true
	}
	return false
}

// GoToStep moves to step if CanGoToStep allows it, recording it in the history.
func (c *Controller) GoToStep(step Step) bool {
	if !c.CanGoToStep(step) {
		return false
	}
	c.currentStep = step
	if !slices.Contains(c.stepHistory, step) {
		c.stepHistory = append(c.stepHistory, step)
	}
	return true
}

// NextStep moves one step forward. It fails at Summary.
func (c *Controller) NextStep() bool {
	if c.currentStep >= Summary {
		return false
	}
	return c.GoToStep(c.currentStep + 1)
}

// PreviousStep moves one step back. It fails at Overview.
func (c *Controller) PreviousStep() bool {
	if c.currentStep <= Overview {
		return false
	}
	return c.GoToStep(c.currentStep - 1)
}

// Complete jumps to Summary and locks the workflow.
func (c *Controller) Complete() {
	c.currentStep = Summary
	c.isComplete = true
}

// ReachableSteps lists the steps CanGoToStep currently allows, in order.
func (c *Controller) ReachableSteps() []Step {
	out := make([]Step, 0, len(Steps))
	for _, s := range Steps {
		if c.CanGoToStep(s) {
			out = append(out, s)
		}
	}
	return out
}

// StepDescription returns the fixed description of step.
func (c *Controller) StepDescription(step Step) string {
	return step.Description()
}
