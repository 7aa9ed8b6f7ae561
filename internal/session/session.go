// Package session wires one review session together: a view controller, a
// workflow controller and an interaction engine, plus the analyzer feedback
// loop between them.
//
// Data flows one way. Pointer events go to the engine, which writes the view
// and, on a click, opens a pending annotation. Confirming it creates a
// validated annotation against the current image, appends it to the workflow,
// re-runs the analyzer and, when enabled, applies the recommended orientation.
// Every externally visible change is reported through Events, synchronously
// and in order.
//
// A Session is not safe for concurrent use. The MCP server serialises requests.
package session

import (
	"log/slog"
	"strings"

	"github.com/ironsheep/image-review-mcp/internal/analyzer"
	"github.com/ironsheep/image-review-mcp/internal/annotation"
	"github.com/ironsheep/image-review-mcp/internal/interaction"
	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/reviewerr"
	"github.com/ironsheep/image-review-mcp/internal/view"
	"github.com/ironsheep/image-review-mcp/internal/workflow"
)

// ErrNoImage is returned by operations that need a loaded image.
var ErrNoImage = &reviewerr.ValidationError{Message: "No image loaded"}

// Events are notified after the corresponding change. Nil funcs are skipped.
type Events struct {
	ViewStateChanged   func(view.State)
	AnnotationCreated  func(model.Annotation)
	AnnotationSelected func(model.Annotation)
	AnnotationDeleted  func(id string)
	StepChanged        func(workflow.Step)
}

// Options configure a session.
type Options struct {
	Container   interaction.Container
	Interaction interaction.Options
	// AutoApplyRecommendedView sets the analyzer's orientation after an image
	// load and after every new annotation.
	AutoApplyRecommendedView bool
	Logger                   *slog.Logger
}

// Session is a single reviewer's session over one image at a time.
type Session struct {
	opts   Options
	events Events
	logger *slog.Logger

	view     *view.Controller
	workflow *workflow.Controller
	engine   *interaction.Engine

	selectedID  string
	lastCreated model.Annotation
}

// New creates a session in its initial state: default view, Overview step,
// no image.
func New(opts Options, events Events) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		opts:     opts,
		events:   events,
		logger:   logger,
		view:     view.NewController(),
		workflow: workflow.NewController(),
	}
	s.engine = interaction.NewEngine(s.view, opts.Container, opts.Interaction, interaction.Callbacks{
		ViewStateChanged:    s.emitView,
		AnnotationRequested: s.handleAnnotationRequest,
	})
	return s
}

// View exposes the view controller for read access and direct edits.
// Changes made through it are not reported as events; prefer the Session
// mutators.
func (s *Session) View() *view.Controller { return s.view }

// Workflow exposes the workflow controller. See View about events.
func (s *Session) Workflow() *workflow.Controller { return s.workflow }

// Engine exposes the interaction engine for pointer input.
func (s *Session) Engine() *interaction.Engine { return s.engine }

// Image returns the loaded image.
func (s *Session) Image() (model.MedicalImage, bool) {
	return s.workflow.CurrentImage()
}

// LoadImage makes img the session's image. The workflow returns to Overview,
// the view is reset, and any pending annotation is dropped. Existing
// annotations are kept; call ClearAnnotations for a clean slate.
func (s *Session) LoadImage(img model.MedicalImage) analyzer.ViewRecommendation {
	s.workflow.LoadImage(img)
	s.engine.Cancel()
	s.engine.SetImage(interaction.Size{Width: float64(img.Width), Height: float64(img.Height)})
	s.selectedID = ""

	s.view.Reset()
	rec := analyzer.RecommendedView(img, s.workflow.Annotations())
	if s.opts.AutoApplyRecommendedView {
		s.view.SetOrientation(rec.Orientation)
	}

	s.logger.Info("image loaded",
		"image_id", img.ID,
		"modality", img.Modality,
		"width", img.Width,
		"height", img.Height,
		"recommended", rec.Orientation)

	s.emitView(s.view.State())
	s.emitStep()
	return rec
}

// SetOrientation changes the orientation.
func (s *Session) SetOrientation(o view.Orientation) {
	s.view.SetOrientation(o)
	s.emitView(s.view.State())
}

// SetZoom changes zoom, clamped by the view controller.
func (s *Session) SetZoom(zoom float64) {
	s.view.SetZoom(zoom)
	s.emitView(s.view.State())
}

// SetPan changes the pan offset.
func (s *Session) SetPan(x, y float64) {
	s.view.SetPan(x, y)
	s.emitView(s.view.State())
}

// SetWindowing changes the windowing parameters.
func (s *Session) SetWindowing(level, width float64) {
	s.view.SetWindowing(level, width)
	s.emitView(s.view.State())
}

// ResetView restores the default view.
func (s *Session) ResetView() {
	s.view.Reset()
	s.emitView(s.view.State())
}

// SetContainer updates the on-screen box used for pointer mapping.
func (s *Session) SetContainer(c interaction.Container) {
	s.engine.SetContainer(c)
}

// AddAnnotation creates an annotation directly, bypassing the pending
// annotation. An empty image id means the current image. The annotation is
// validated against the current image's bounds.
func (s *Session) AddAnnotation(req annotation.Request) (model.Annotation, error) {
	return s.createAnnotation(req)
}

// ConfirmPending completes the pending annotation with f.
func (s *Session) ConfirmPending(f interaction.Fields) (model.Annotation, error) {
	if err := s.engine.Confirm(f); err != nil {
		return model.Annotation{}, err
	}
	return s.lastCreated, nil
}

func (s *Session) handleAnnotationRequest(r interaction.CreateRequest) error {
	a, err := s.createAnnotation(annotation.Request{
		Coordinates: r.Coordinates,
		Type:        r.Type,
		Category:    r.Category,
		Priority:    r.Priority,
		Metadata:    r.Metadata,
	})
	if err != nil {
		return err
	}
	s.lastCreated = a
	return nil
}

func (s *Session) createAnnotation(req annotation.Request) (model.Annotation, error) {
	img, ok := s.workflow.CurrentImage()
	if !ok {
		return model.Annotation{}, ErrNoImage
	}
	switch id := strings.TrimSpace(req.ImageID); id {
	case "", img.ID:
		req.ImageID = img.ID
	default:
		return model.Annotation{}, reviewerr.Validationf("Image ID %s does not match the loaded image %s", id, img.ID)
	}

	a, err := annotation.New(req, annotation.ImageBounds(img))
	if err != nil {
		s.logger.Debug("annotation rejected", "error", err)
		return model.Annotation{}, err
	}

	s.workflow.AddAnnotation(a)
	s.logger.Info("annotation created",
		"id", a.ID,
		"type", a.Type,
		"category", a.Category,
		"priority", a.Priority)
	if s.events.AnnotationCreated != nil {
		s.events.AnnotationCreated(a.Clone())
	}

	s.applyRecommendation(img)
	return a.Clone(), nil
}

// applyRecommendation re-runs the analyzer and, when enabled, moves the view
// to the recommended orientation.
func (s *Session) applyRecommendation(img model.MedicalImage) {
	if !s.opts.AutoApplyRecommendedView {
		return
	}
	rec := analyzer.RecommendedView(img, s.workflow.Annotations())
	if rec.Orientation == s.view.State().Orientation {
		return
	}
	s.view.SetOrientation(rec.Orientation)
	s.logger.Debug("orientation applied", "orientation", rec.Orientation, "reason", rec.Reason)
	s.emitView(s.view.State())
}

// Annotations returns the annotations in insertion order.
func (s *Session) Annotations() []model.Annotation {
	return s.workflow.Annotations()
}

// Annotation looks up an annotation by id.
func (s *Session) Annotation(id string) (model.Annotation, bool) {
	for _, a := range s.workflow.Annotations() {
		if a.ID == id {
			return a, true
		}
	}
	return model.Annotation{}, false
}

// SelectAnnotation marks id as selected.
func (s *Session) SelectAnnotation(id string) (model.Annotation, error) {
	a, ok := s.Annotation(id)
	if !ok {
		return model.Annotation{}, reviewerr.Validationf("Annotation not found: %s", id)
	}
	s.selectedID = id
	if s.events.AnnotationSelected != nil {
		s.events.AnnotationSelected(a)
	}
	return a, nil
}

// Selected returns the selected annotation, if any.
func (s *Session) Selected() (model.Annotation, bool) {
	if s.selectedID == "" {
		return model.Annotation{}, false
	}
	return s.Annotation(s.selectedID)
}

// DeleteAnnotation removes an annotation. Deleting the selected annotation
// clears the selection.
func (s *Session) DeleteAnnotation(id string) error {
	if !s.workflow.RemoveAnnotation(id) {
		return reviewerr.Validationf("Annotation not found: %s", id)
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.logger.Info("annotation deleted", "id", id)
	if s.events.AnnotationDeleted != nil {
		s.events.AnnotationDeleted(id)
	}
	return nil
}

// ClearAnnotations deletes every annotation, notifying each deletion, and
// returns how many were removed.
func (s *Session) ClearAnnotations() int {
	anns := s.workflow.Annotations()
	n := s.workflow.ClearAnnotations()
	s.selectedID = ""
	if s.events.AnnotationDeleted != nil {
		for _, a := range anns {
			s.events.AnnotationDeleted(a.ID)
		}
	}
	return n
}

// GoToStep navigates the workflow and reports success.
func (s *Session) GoToStep(step workflow.Step) bool {
	return s.navigate(func() bool { return s.workflow.GoToStep(step) })
}

// NextStep moves one step forward.
func (s *Session) NextStep() bool {
	return s.navigate(s.workflow.NextStep)
}

// PreviousStep moves one step back.
func (s *Session) PreviousStep() bool {
	return s.navigate(s.workflow.PreviousStep)
}

// Complete finishes the review.
func (s *Session) Complete() {
	s.navigate(func() bool {
		s.workflow.Complete()
		return true
	})
}

func (s *Session) navigate(move func() bool) bool {
	before := s.workflow.CurrentStep()
	if !move() {
		return false
	}
	if s.workflow.CurrentStep() != before {
		s.emitStep()
	}
	return true
}

// Analyze runs the analyzer over the current image and annotations.
func (s *Session) Analyze() (analyzer.Analysis, error) {
	img, ok := s.workflow.CurrentImage()
	if !ok {
		return analyzer.Analysis{}, ErrNoImage
	}
	return analyzer.Analyze(img, s.workflow.Annotations()), nil
}

// AnnotationContext suggests a classification for an image-space point.
func (s *Session) AnnotationContext(point model.Coordinates) (analyzer.AnnotationRecommendation, error) {
	img, ok := s.workflow.CurrentImage()
	if !ok {
		return analyzer.AnnotationRecommendation{}, ErrNoImage
	}
	return analyzer.AnnotationContext(img, point), nil
}

// PendingContext suggests a classification for the pending annotation.
func (s *Session) PendingContext() (analyzer.AnnotationRecommendation, bool) {
	p, ok := s.engine.Pending()
	if !ok {
		return analyzer.AnnotationRecommendation{}, false
	}
	rec, err := s.AnnotationContext(model.Coordinates{X: p.X, Y: p.Y})
	return rec, err == nil
}

// Markers positions the annotations for the current view.
func (s *Session) Markers() []interaction.Marker {
	return s.engine.Markers(s.workflow.Annotations())
}

func (s *Session) emitView(st view.State) {
	if s.events.ViewStateChanged != nil {
		s.events.ViewStateChanged(st)
	}
}

func (s *Session) emitStep() {
	if s.events.StepChanged != nil {
		s.events.StepChanged(s.workflow.CurrentStep())
	}
}
