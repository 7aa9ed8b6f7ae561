// Package interaction turns pointer, wheel and double-click events into view
// changes and annotation placement requests.
//
// The engine keeps only transient state: whether a drag is in progress, the
// drag anchor, and the image point of an annotation awaiting reviewer input.
// It reads and writes the view exclusively through the ViewController
// interface, so every clamp the controller applies is honoured.
//
// Gestures:
//
//	Idle ──down(primary)──▶ Dragging ──move──▶ Dragging (pan = pointer − anchor)
//	Dragging ──up, moved ≥ threshold──▶ Idle (pan kept)
//	Dragging ──up, moved < threshold──▶ AwaitingAnnotationInput (pan restored)
//	AwaitingAnnotationInput ──confirm / cancel──▶ Idle
//
// Wheel and double-click act immediately in any phase. All methods run
// synchronously; the engine is not safe for concurrent use.
package interaction

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/view"
)

// PrimaryButton is the pointer button that starts a drag.
const PrimaryButton = 0

// Defaults for Options.
const (
	DefaultClickThreshold = 5.0
	DefaultWheelStep      = 0.1
	DefaultMinZoom        = 0.5
	DefaultMaxZoom        = 5.0
)

// ErrNoPendingAnnotation is returned by Confirm when nothing awaits input.
var ErrNoPendingAnnotation = errors.New("no pending annotation")

// ViewController is the part of view.Controller the engine drives.
type ViewController interface {
	State() view.State
	SetPan(x, y float64)
	SetZoom(zoom float64)
	Reset()
}

// Options tune gesture handling. Zero fields take the defaults.
type Options struct {
	// ClickThreshold is the displacement in pixels below which a
	// press/release pair counts as a click.
	ClickThreshold float64
	// WheelStep is the zoom change per wheel event.
	WheelStep float64
	// MinZoom and MaxZoom bound wheel zoom. They are narrower than the view
	// controller's own limits.
	MinZoom float64
	MaxZoom float64
}

func (o Options) withDefaults() Options {
	if o.ClickThreshold <= 0 {
		o.ClickThreshold = DefaultClickThreshold
	}
	if o.WheelStep <= 0 {
		o.WheelStep = DefaultWheelStep
	}
	if o.MinZoom <= 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom <= 0 || o.MaxZoom < o.MinZoom {
		o.MaxZoom = DefaultMaxZoom
	}
	return o
}

// Phase is the engine's gesture state.
type Phase int

const (
	Idle Phase = iota
	Dragging
	AwaitingAnnotationInput
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case AwaitingAnnotationInput:
		return "awaiting_annotation_input"
	}
	return "unknown"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Gesture classifies a completed press/release pair.
type Gesture int

const (
	GestureNone Gesture = iota
	GesturePan
	GestureClick
)

func (g Gesture) String() string {
	switch g {
	case GesturePan:
		return "pan"
	case GestureClick:
		return "click"
	}
	return "none"
}

// MarshalText encodes the gesture by name.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// PendingAnnotation is an image-space point awaiting type, category and priority.
type PendingAnnotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fields are the reviewer-supplied parts of a new annotation.
type Fields struct {
	Type     model.AnnotationType
	Category model.Category
	Priority model.Priority
	// Width and Height turn a point into a region anchored at the pending point.
	Width    *float64
	Height   *float64
	Metadata map[string]any
}

// CreateRequest is emitted when a pending annotation is confirmed.
type CreateRequest struct {
	Coordinates model.Coordinates
	Type        model.AnnotationType
	Category    model.Category
	Priority    model.Priority
	Metadata    map[string]any
}

// Callbacks receive engine output. Nil callbacks are skipped.
type Callbacks struct {
	// ViewStateChanged fires after every pan, zoom or reset the engine applies.
	ViewStateChanged func(view.State)
	// AnnotationRequested handles a confirmed annotation. Returning an error
	// keeps the annotation pending.
	AnnotationRequested func(CreateRequest) error
}

type drag struct {
	anchor    r2.Vec // pointer minus pan at press time
	start     r2.Vec // pointer at press time
	originPan r2.Vec
}

// Engine coordinates gestures for one session.
type Engine struct {
	view      ViewController
	opts      Options
	callbacks Callbacks

	container Container
	image     *Size

	drag    *drag
	pending *PendingAnnotation
}

// NewEngine creates an idle engine driving vc.
func NewEngine(vc ViewController, container Container, opts Options, cb Callbacks) *Engine {
	return &Engine{
		view:      vc,
		opts:      opts.withDefaults(),
		callbacks: cb,
		container: container,
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// SetContainer updates the on-screen bounding box.
func (e *Engine) SetContainer(c Container) {
	e.container = c
}

// Container returns the current bounding box.
func (e *Engine) Container() Container {
	return e.container
}

// SetImage sets the native size of the image being viewed.
func (e *Engine) SetImage(size Size) {
	e.image = &size
}

// ClearImage forgets the image; clicks no longer open annotations.
func (e *Engine) ClearImage() {
	e.image = nil
}

// Phase reports the current gesture state. A drag takes precedence over a
// pending annotation.
func (e *Engine) Phase() Phase {
	switch {
	case e.drag != nil:
		return Dragging
	case e.pending != nil:
		return AwaitingAnnotationInput
	}
	return Idle
}

// Pending returns the annotation awaiting input, if any.
func (e *Engine) Pending() (PendingAnnotation, bool) {
	if e.pending == nil {
		return PendingAnnotation{}, false
	}
	return *e.pending, true
}

// Transform returns the mapping for the current view state. Without an image
// the size is zero.
func (e *Engine) Transform() Transform {
	var size Size
	if e.image != nil {
		size = *e.image
	}
	return NewTransform(e.container, size, e.view.State())
}

// PointerDown starts a drag when button is the primary button.
func (e *Engine) PointerDown(x, y float64, button int) {
	if button != PrimaryButton {
		return
	}
	p := r2.Vec{X: x, Y: y}
	pan := e.currentPan()
	e.drag = &drag{
		anchor:    r2.Sub(p, pan),
		start:     p,
		originPan: pan,
	}
}

// PointerMove pans while dragging. The new pan is absolute, so dropped
// intermediate events do not accumulate error.
func (e *Engine) PointerMove(x, y float64) {
	if e.drag == nil {
		return
	}
	pan := r2.Sub(r2.Vec{X: x, Y: y}, e.drag.anchor)
	e.view.SetPan(pan.X, pan.Y)
	e.notifyView()
}

// PointerUp ends a drag. A release within the click threshold of the press
// restores the original pan and opens a pending annotation at the release
// point; anything further is a pan.
func (e *Engine) PointerUp(x, y float64) Gesture {
	if e.drag == nil {
		return GestureNone
	}
	d := *e.drag
	e.drag = nil

	p := r2.Vec{X: x, Y: y}
	if r2.Norm(r2.Sub(p, d.start)) >= e.opts.ClickThreshold {
		return GesturePan
	}

	if e.currentPan() != d.originPan {
		e.view.SetPan(d.originPan.X, d.originPan.Y)
		e.notifyView()
	}
	if e.image != nil {
		q := e.Transform().ScreenToImage(p)
		e.pending = &PendingAnnotation{X: q.X, Y: q.Y}
	}
	return GestureClick
}

// Wheel zooms by one step per event: out for positive delta, in for negative.
// The result is limited to the engine's interactive range before the view
// controller applies its own clamp.
func (e *Engine) Wheel(deltaY float64) {
	if deltaY == 0 {
		return
	}
	step := e.opts.WheelStep
	if deltaY > 0 {
		step = -step
	}
	zoom := view.ClampZoom(e.view.State().Zoom+step, e.opts.MinZoom, e.opts.MaxZoom)
	e.view.SetZoom(zoom)
	e.notifyView()
}

// DoubleClick resets the view. A drag in progress or a pending annotation is
// left untouched.
func (e *Engine) DoubleClick() {
	e.view.Reset()
	e.notifyView()
}

// Confirm merges f with the pending point and hands the result to the
// AnnotationRequested callback. The pending annotation is cleared only when
// the callback succeeds.
func (e *Engine) Confirm(f Fields) error {
	if e.pending == nil {
		return ErrNoPendingAnnotation
	}

	req := CreateRequest{
		Coordinates: model.Coordinates{X: e.pending.X, Y: e.pending.Y},
		Type:        f.Type,
		Category:    f.Category,
		Priority:    f.Priority,
		Metadata:    f.Metadata,
	}
	if f.Width != nil {
		w := *f.Width
		req.Coordinates.Width = &w
	}
	if f.Height != nil {
		h := *f.Height
		req.Coordinates.Height = &h
	}

	if e.callbacks.AnnotationRequested != nil {
		if err := e.callbacks.AnnotationRequested(req); err != nil {
			return err
		}
	}
	e.pending = nil
	return nil
}

// Cancel drops the pending annotation and reports whether there was one.
func (e *Engine) Cancel() bool {
	had := e.pending != nil
	e.pending = nil
	return had
}

// Marker is an annotation positioned in client coordinates for drawing.
type Marker struct {
	AnnotationID string               `json:"annotation_id"`
	Type         model.AnnotationType `json:"type"`
	Category     model.Category       `json:"category"`
	Priority     model.Priority       `json:"priority"`
	X            float64              `json:"x"`
	Y            float64              `json:"y"`
	Width        *float64             `json:"width,omitempty"`
	Height       *float64             `json:"height,omitempty"`
}

// Markers positions every annotation for the current view. Call it on every
// render; the result is stale after any pan or zoom.
func (e *Engine) Markers(annotations []model.Annotation) []Marker {
	t := e.Transform()
	out := make([]Marker, 0, len(annotations))
	for _, a := range annotations {
		p := t.ImageToScreen(r2.Vec{X: a.Coordinates.X, Y: a.Coordinates.Y})
		m := Marker{
			AnnotationID: a.ID,
			Type:         a.Type,
			Category:     a.Category,
			Priority:     a.Priority,
			X:            p.X,
			Y:            p.Y,
		}
		if a.Coordinates.Width != nil {
			w := t.ScaleLength(*a.Coordinates.Width)
			m.Width = &w
		}
		if a.Coordinates.Height != nil {
			h := t.ScaleLength(*a.Coordinates.Height)
			m.Height = &h
		}
		out = append(out, m)
	}
	return out
}

func (e *Engine) currentPan() r2.Vec {
	s := e.view.State()
	return r2.Vec{X: s.Pan.X, Y: s.Pan.Y}
}

func (e *Engine) notifyView() {
	if e.callbacks.ViewStateChanged != nil {
		e.callbacks.ViewStateChanged(e.view.State())
	}
}
