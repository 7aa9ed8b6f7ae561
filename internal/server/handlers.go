package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/ironsheep/image-review-mcp/internal/analyzer"
	"github.com/ironsheep/image-review-mcp/internal/annotation"
	"github.com/ironsheep/image-review-mcp/internal/imaging"
	"github.com/ironsheep/image-review-mcp/internal/interaction"
	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/reviewerr"
	"github.com/ironsheep/image-review-mcp/internal/session"
	"github.com/ironsheep/image-review-mcp/internal/view"
	"github.com/ironsheep/image-review-mcp/internal/workflow"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "review_load_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

var errUnknownTool = errors.New("unknown tool")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Previews additionally carry an image content block. Validation failures
// and other tool errors return code -32000; the message tells them apart and
// data holds the text to show the reviewer.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.callTool(params.Name, params.Arguments)
	switch {
	case errors.Is(err, errUnknownTool):
		return s.errorResponse(req.ID, -32602, "Unknown tool", err.Error())
	case reviewerr.IsValidation(err):
		return s.errorResponse(req.ID, -32000, "Validation failed", reviewerr.UserMessage(err))
	case err != nil:
		return s.errorResponse(req.ID, -32000, "Tool execution failed", reviewerr.UserMessage(err))
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if p, ok := result.(*imaging.PreviewResult); ok {
		meta := *p
		meta.ImageBase64 = ""
		content = []map[string]interface{}{
			{
				"type":     "image",
				"data":     p.ImageBase64,
				"mimeType": p.MimeType,
			},
			{
				"type": "text",
				"text": mustMarshalJSON(meta),
			},
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// callTool runs a tool and normalises its failure. A panic inside a tool is
// recovered here so one bad call cannot take the session down.
func (s *Server) callTool(name string, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool panicked", "tool", name, "panic", r, "stack", string(debug.Stack()))
			result, err = nil, reviewerr.FromPanic(r, name)
		}
	}()

	result, err = s.executeTool(name, args)
	if err == nil || errors.Is(err, errUnknownTool) {
		return result, err
	}

	handled := reviewerr.Handle(err, name)
	if reviewerr.IsValidation(handled) {
		s.logger.Debug("tool rejected input", "tool", name, "error", err)
	} else {
		s.logger.Error("tool failed", "tool", name, "error", err)
	}
	return nil, handled
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "review_load_image":
		return s.handleLoadImage(args)
	case "review_reset_session":
		return s.handleResetSession()

	// View
	case "review_view_state":
		return s.viewSnapshot(), nil
	case "review_set_viewport":
		return s.handleSetViewport(args)
	case "review_set_orientation":
		return s.handleSetOrientation(args)
	case "review_set_zoom":
		return s.handleSetZoom(args)
	case "review_set_pan":
		return s.handleSetPan(args)
	case "review_set_windowing":
		return s.handleSetWindowing(args)
	case "review_reset_view":
		s.session.ResetView()
		return s.viewSnapshot(), nil

	// Pointer input
	case "review_pointer_down":
		return s.handlePointerDown(args)
	case "review_pointer_move":
		return s.handlePointerMove(args)
	case "review_pointer_up":
		return s.handlePointerUp(args)
	case "review_wheel":
		return s.handleWheel(args)
	case "review_double_click":
		s.session.Engine().DoubleClick()
		return s.viewSnapshot(), nil

	// Annotations
	case "review_pending_annotation":
		return s.pendingSnapshot(), nil
	case "review_confirm_annotation":
		return s.handleConfirmAnnotation(args)
	case "review_cancel_annotation":
		return map[string]interface{}{"cancelled": s.session.Engine().Cancel()}, nil
	case "review_add_annotation":
		return s.handleAddAnnotation(args)
	case "review_list_annotations":
		return s.handleListAnnotations(args)
	case "review_select_annotation":
		return s.handleSelectAnnotation(args)
	case "review_delete_annotation":
		return s.handleDeleteAnnotation(args)
	case "review_clear_annotations":
		return map[string]interface{}{"removed": s.session.ClearAnnotations()}, nil
	case "review_markers":
		return s.handleMarkers(), nil

	// Workflow
	case "review_workflow_state":
		return s.workflowSnapshot(), nil
	case "review_go_to_step":
		return s.handleGoToStep(args)
	case "review_next_step":
		return s.navigationResult(s.session.NextStep()), nil
	case "review_previous_step":
		return s.navigationResult(s.session.PreviousStep()), nil
	case "review_complete":
		s.session.Complete()
		return s.navigationResult(true), nil

	// Analysis
	case "review_analyze":
		return s.session.Analyze()
	case "review_annotation_context":
		return s.handleAnnotationContext(args)
	case "review_preview":
		return s.handlePreview(args)
	case "review_intensity":
		return s.handleIntensity(args)
	case "review_measure":
		return s.handleMeasure(args)

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return reviewerr.Validationf("Invalid arguments: %v", err)
	}
	return nil
}

func requireNumber(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, reviewerr.Validationf("%s is required", name)
	}
	return *v, nil
}

func requireString(name, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", reviewerr.Validationf("%s is required", name)
	}
	return v, nil
}

type pointArgs struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (a pointArgs) point() (float64, float64, error) {
	x, err := requireNumber("x", a.X)
	if err != nil {
		return 0, 0, err
	}
	y, err := requireNumber("y", a.Y)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// === Snapshots ===

func (s *Server) viewSnapshot() map[string]interface{} {
	e := s.session.Engine()
	return map[string]interface{}{
		"view_state": s.session.View().State(),
		"container":  e.Container(),
		"phase":      e.Phase(),
	}
}

func (s *Server) pendingSnapshot() map[string]interface{} {
	out := map[string]interface{}{
		"phase":      s.session.Engine().Phase(),
		"pending":    nil,
		"suggestion": nil,
	}
	if p, ok := s.session.Engine().Pending(); ok {
		out["pending"] = p
		if rec, ok := s.session.PendingContext(); ok {
			out["suggestion"] = rec
		}
	}
	return out
}

func (s *Server) workflowSnapshot() map[string]interface{} {
	wf := s.session.Workflow()
	st := wf.State()
	return map[string]interface{}{
		"state":           st,
		"reachable_steps": wf.ReachableSteps(),
		"description":     wf.StepDescription(st.CurrentStep),
	}
}

func (s *Server) navigationResult(ok bool) map[string]interface{} {
	wf := s.session.Workflow()
	return map[string]interface{}{
		"success":         ok,
		"current_step":    wf.CurrentStep(),
		"is_complete":     wf.IsComplete(),
		"reachable_steps": wf.ReachableSteps(),
	}
}

// === Session Handlers ===

type loadImageArgs struct {
	Path     string                 `json:"path"`
	Modality string                 `json:"modality"`
	ID       string                 `json:"id"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	path, err := requireString("path", a.Path)
	if err != nil {
		return nil, err
	}
	if _, err := requireString("modality", a.Modality); err != nil {
		return nil, err
	}

	if prev, ok := s.session.Image(); ok && prev.PixelSource != path {
		s.cache.Evict(prev.PixelSource)
	}

	img, err := imaging.LoadMedicalImage(s.cache, imaging.LoadRequest{
		Path:     path,
		ID:       a.ID,
		Modality: model.ParseModality(a.Modality),
		Metadata: a.Metadata,
	})
	if err != nil {
		return nil, reviewerr.Validationf("Failed to load image: %v", err)
	}
	if err := annotation.ValidateImageID(img.ID); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, path)
	if err != nil {
		return nil, err
	}

	rec := s.session.LoadImage(img)
	return map[string]interface{}{
		"image":                img,
		"info":                 info,
		"recommended_view":     rec,
		"view_state":           s.session.View().State(),
		"current_step":         s.session.Workflow().CurrentStep(),
		"reachable_steps":      s.session.Workflow().ReachableSteps(),
		"annotations_retained": len(s.session.Annotations()),
	}, nil
}

func (s *Server) handleResetSession() (interface{}, error) {
	if img, ok := s.session.Image(); ok {
		s.cache.Evict(img.PixelSource)
	}
	s.session = s.newSession()
	s.logger.Info("session reset")
	return map[string]interface{}{
		"reset":      true,
		"view_state": s.session.View().State(),
		"workflow":   s.session.Workflow().State(),
	}, nil
}

// === View Handlers ===

type viewportArgs struct {
	Left   float64  `json:"left"`
	Top    float64  `json:"top"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

func (s *Server) handleSetViewport(args json.RawMessage) (interface{}, error) {
	var a viewportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, err := requireNumber("width", a.Width)
	if err != nil {
		return nil, err
	}
	h, err := requireNumber("height", a.Height)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, reviewerr.Validationf("Viewport width and height must be positive")
	}
	s.session.SetContainer(interaction.Container{Left: a.Left, Top: a.Top, Width: w, Height: h})
	return s.viewSnapshot(), nil
}

type orientationArgs struct {
	Orientation string `json:"orientation"`
}

func (s *Server) handleSetOrientation(args json.RawMessage) (interface{}, error) {
	var a orientationArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	o, err := view.ParseOrientation(strings.ToLower(strings.TrimSpace(a.Orientation)))
	if err != nil {
		return nil, &reviewerr.ValidationError{Message: err.Error()}
	}
	s.session.SetOrientation(o)
	return s.viewSnapshot(), nil
}

type zoomArgs struct {
	Zoom *float64 `json:"zoom"`
}

func (s *Server) handleSetZoom(args json.RawMessage) (interface{}, error) {
	var a zoomArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	z, err := requireNumber("zoom", a.Zoom)
	if err != nil {
		return nil, err
	}
	s.session.SetZoom(z)
	return s.viewSnapshot(), nil
}

func (s *Server) handleSetPan(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	x, y, err := a.point()
	if err != nil {
		return nil, err
	}
	s.session.SetPan(x, y)
	return s.viewSnapshot(), nil
}

type windowingArgs struct {
	Level *float64 `json:"level"`
	Width *float64 `json:"width"`
}

func (s *Server) handleSetWindowing(args json.RawMessage) (interface{}, error) {
	var a windowingArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	level, err := requireNumber("level", a.Level)
	if err != nil {
		return nil, err
	}
	width, err := requireNumber("width", a.Width)
	if err != nil {
		return nil, err
	}
	s.session.SetWindowing(level, width)
	return s.viewSnapshot(), nil
}

// === Pointer Handlers ===

type pointerDownArgs struct {
	pointArgs
	Button int `json:"button"`
}

func (s *Server) handlePointerDown(args json.RawMessage) (interface{}, error) {
	var a pointerDownArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	x, y, err := a.point()
	if err != nil {
		return nil, err
	}
	s.session.Engine().PointerDown(x, y, a.Button)
	return map[string]interface{}{"phase": s.session.Engine().Phase()}, nil
}

func (s *Server) handlePointerMove(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	x, y, err := a.point()
	if err != nil {
		return nil, err
	}
	s.session.Engine().PointerMove(x, y)
	return s.viewSnapshot(), nil
}

func (s *Server) handlePointerUp(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	x, y, err := a.point()
	if err != nil {
		return nil, err
	}
	gesture := s.session.Engine().PointerUp(x, y)

	out := s.pendingSnapshot()
	out["gesture"] = gesture
	out["view_state"] = s.session.View().State()
	return out, nil
}

type wheelArgs struct {
	DeltaY *float64 `json:"delta_y"`
}

func (s *Server) handleWheel(args json.RawMessage) (interface{}, error) {
	var a wheelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, err := requireNumber("delta_y", a.DeltaY)
	if err != nil {
		return nil, err
	}
	s.session.Engine().Wheel(d)
	return s.viewSnapshot(), nil
}

// === Annotation Handlers ===

type annotationFieldArgs struct {
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Priority string   `json:"priority"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Note     string   `json:"note"`
}

func (a annotationFieldArgs) metadata() map[string]any {
	note := annotation.SanitizeString(a.Note, annotation.MaxStringLength)
	if note == "" {
		return nil
	}
	return map[string]any{"note": note}
}

func (a annotationFieldArgs) fields() interaction.Fields {
	return interaction.Fields{
		Type:     model.AnnotationType(strings.ToLower(strings.TrimSpace(a.Type))),
		Category: model.Category(strings.ToLower(strings.TrimSpace(a.Category))),
		Priority: model.Priority(strings.ToLower(strings.TrimSpace(a.Priority))),
		Width:    a.Width,
		Height:   a.Height,
		Metadata: a.metadata(),
	}
}

func (s *Server) annotationResult(a model.Annotation) map[string]interface{} {
	return map[string]interface{}{
		"annotation":       a,
		"annotation_count": len(s.session.Annotations()),
		"reachable_steps":  s.session.Workflow().ReachableSteps(),
		"view_state":       s.session.View().State(),
	}
}

func (s *Server) handleConfirmAnnotation(args json.RawMessage) (interface{}, error) {
	var a annotationFieldArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ann, err := s.session.ConfirmPending(a.fields())
	if errors.Is(err, interaction.ErrNoPendingAnnotation) {
		return nil, reviewerr.Validationf("No pending annotation to confirm")
	}
	if err != nil {
		return nil, err
	}
	return s.annotationResult(ann), nil
}

type addAnnotationArgs struct {
	annotationFieldArgs
	pointArgs
	ImageID string `json:"image_id"`
}

func (s *Server) handleAddAnnotation(args json.RawMessage) (interface{}, error) {
	var a addAnnotationArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	x, y, err := a.point()
	if err != nil {
		return nil, err
	}

	f := a.fields()
	ann, err := s.session.AddAnnotation(annotation.Request{
		ImageID:     a.ImageID,
		Coordinates: model.Coordinates{X: x, Y: y, Width: f.Width, Height: f.Height},
		Type:        f.Type,
		Category:    f.Category,
		Priority:    f.Priority,
		Metadata:    f.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return s.annotationResult(ann), nil
}

type listAnnotationsArgs struct {
	Order string `json:"order"`
}

func (s *Server) handleListAnnotations(args json.RawMessage) (interface{}, error) {
	var a listAnnotationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	anns := s.session.Annotations()
	out := map[string]interface{}{"count": len(anns)}
	if sel, ok := s.session.Selected(); ok {
		out["selected_id"] = sel.ID
	}

	switch a.Order {
	case "", "insertion":
		out["annotations"] = anns
	case "priority":
		out["annotations"] = analyzer.OrderAnnotations(anns)
	case "grouped":
		out["groups"] = analyzer.GroupAnnotations(anns)
	default:
		return nil, reviewerr.Validationf("Order must be one of: insertion, priority, grouped")
	}
	return out, nil
}

type idArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleSelectAnnotation(args json.RawMessage) (interface{}, error) {
	var a idArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := requireString("id", a.ID)
	if err != nil {
		return nil, err
	}
	ann, err := s.session.SelectAnnotation(id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"selected": ann}, nil
}

func (s *Server) handleDeleteAnnotation(args json.RawMessage) (interface{}, error) {
	var a idArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := requireString("id", a.ID)
	if err != nil {
		return nil, err
	}
	if err := s.session.DeleteAnnotation(id); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"deleted":          id,
		"annotation_count": len(s.session.Annotations()),
	}, nil
}

type markerView struct {
	interaction.Marker
	Color string `json:"color"`
}

func (s *Server) handleMarkers() map[string]interface{} {
	markers := s.session.Markers()
	out := make([]markerView, len(markers))
	for i, m := range markers {
		out[i] = markerView{Marker: m, Color: imaging.MarkerHex(m.Priority)}
	}
	return map[string]interface{}{
		"markers":    out,
		"view_state": s.session.View().State(),
	}
}

// === Workflow Handlers ===

type stepArgs struct {
	Step string `json:"step"`
}

func (s *Server) handleGoToStep(args json.RawMessage) (interface{}, error) {
	var a stepArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	step, err := workflow.ParseStep(strings.ToLower(strings.TrimSpace(a.Step)))
	if err != nil {
		return nil, &reviewerr.ValidationError{Message: err.Error()}
	}
	return s.navigationResult(s.session.GoToStep(step)), nil
}

// === Analysis Handlers ===

func (s *Server) handleAnnotationContext(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	x, y, err := a.point()
	if err != nil {
		return nil, err
	}
	return s.session.AnnotationContext(model.Coordinates{X: x, Y: y})
}

type previewArgs struct {
	AnnotationID string `json:"annotation_id"`
	Windowed     bool   `json:"windowed"`
	Overlay      *bool  `json:"overlay"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, ok := s.session.Image()
	if !ok {
		return nil, session.ErrNoImage
	}
	pix, err := s.cache.Load(img.PixelSource)
	if err != nil {
		return nil, err
	}

	region := pix.Bounds()
	if a.AnnotationID != "" {
		ann, ok := s.session.Annotation(a.AnnotationID)
		if !ok {
			return nil, reviewerr.Validationf("Annotation not found: %s", a.AnnotationID)
		}
		region = imaging.AnnotationRegion(ann, pix.Bounds(), s.cfg.Preview.PointBox)
	}

	opts := imaging.PreviewOptions{MaxSize: s.cfg.Preview.MaxSize}
	if a.Windowed {
		w := s.session.View().State().Windowing
		opts.Windowing = &w
	}
	if a.Overlay == nil || *a.Overlay {
		opts.Markers = s.session.Annotations()
	}
	return imaging.RenderPreview(pix, region, opts)
}

type intensityArgs struct {
	AnnotationID string   `json:"annotation_id"`
	X            *float64 `json:"x"`
	Y            *float64 `json:"y"`
}

func (s *Server) handleIntensity(args json.RawMessage) (interface{}, error) {
	var a intensityArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, ok := s.session.Image()
	if !ok {
		return nil, session.ErrNoImage
	}
	pix, err := s.cache.Load(img.PixelSource)
	if err != nil {
		return nil, err
	}

	region := pix.Bounds()
	switch {
	case a.AnnotationID != "":
		ann, ok := s.session.Annotation(a.AnnotationID)
		if !ok {
			return nil, reviewerr.Validationf("Annotation not found: %s", a.AnnotationID)
		}
		region = imaging.AnnotationRegion(ann, pix.Bounds(), s.cfg.Preview.PointBox)
	case a.X != nil || a.Y != nil:
		x, y, err := pointArgs{X: a.X, Y: a.Y}.point()
		if err != nil {
			return nil, err
		}
		probe := model.Annotation{Type: model.TypePoint, Coordinates: model.Coordinates{X: x, Y: y}}
		region = imaging.AnnotationRegion(probe, pix.Bounds(), s.cfg.Preview.PointBox)
	}

	stats, err := imaging.RegionIntensity(pix, region)
	if err != nil {
		return nil, &reviewerr.ValidationError{Message: err.Error()}
	}
	return stats, nil
}

type measureArgs struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

func (s *Server) handleMeasure(args json.RawMessage) (interface{}, error) {
	var a measureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, ok := s.session.Image()
	if !ok {
		return nil, session.ErrNoImage
	}

	from, ok := s.session.Annotation(a.FromID)
	if !ok {
		return nil, reviewerr.Validationf("Annotation not found: %s", a.FromID)
	}
	to, ok := s.session.Annotation(a.ToID)
	if !ok {
		return nil, reviewerr.Validationf("Annotation not found: %s", a.ToID)
	}
	return imaging.MeasureDistance(img, from, to)
}
