package server

import (
	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/view"
	"github.com/ironsheep/image-review-mcp/internal/workflow"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func enumProp(description string, values []string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        values,
	}
}

func withDefault(p map[string]interface{}, v interface{}) map[string]interface{} {
	p["default"] = v
	return p
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func stepNames() []string {
	out := make([]string, len(workflow.Steps))
	for i, s := range workflow.Steps {
		out[i] = s.String()
	}
	return out
}

// annotationFieldProps are the reviewer-supplied classification fields.
func annotationFieldProps() map[string]interface{} {
	return map[string]interface{}{
		"type":     enumProp("Annotation type", names(model.AnnotationTypes)),
		"category": enumProp("Annotation category", names(model.Categories)),
		"priority": enumProp("Annotation priority", names(model.Priorities)),
		"width":    prop("number", "Optional region width in image pixels"),
		"height":   prop("number", "Optional region height in image pixels"),
		"note":     prop("string", "Optional free-text note (trimmed, at most 1000 characters)"),
	}
}

func pointerProps() map[string]interface{} {
	return map[string]interface{}{
		"x": prop("number", "Pointer X in client coordinates"),
		"y": prop("number", "Pointer Y in client coordinates"),
	}
}

func noArgs() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	annotationProps := annotationFieldProps()
	addProps := annotationFieldProps()
	addProps["x"] = prop("number", "X in image pixels")
	addProps["y"] = prop("number", "Y in image pixels")
	addProps["image_id"] = prop("string", "Image id; defaults to the loaded image")

	pointerDown := pointerProps()
	pointerDown["button"] = withDefault(prop("integer", "Pointer button; only 0 (primary) starts a drag"), 0)

	return []Tool{
		// Session
		{
			Name:        "review_load_image",
			Description: "Load an image file into the review session. Resets the workflow to the overview step, resets the view, drops any pending annotation and returns the recommended starting orientation. Existing annotations are kept; call review_clear_annotations for a clean slate.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":     prop("string", "Absolute path to the image file (PNG, JPEG, GIF, BMP or TIFF)"),
				"modality": prop("string", "Imaging modality: CT, MRI or US"),
				"id":       prop("string", "Image id. Defaults to the file name without extension"),
				"metadata": prop("object", "Free-form study metadata such as studyType, bodyPart, seriesDescription, studyDate, seriesNumber, sliceThickness, pixelSpacing"),
			}, "path", "modality"),
		},
		{
			Name:        "review_reset_session",
			Description: "Discard the whole session (image, annotations, workflow, view) and start over. Use after an unexpected error.",
			InputSchema: noArgs(),
		},

		// View
		{
			Name:        "review_view_state",
			Description: "Get the current view state (orientation, zoom, pan, windowing), the container box and the interaction phase.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_set_viewport",
			Description: "Set the on-screen box the image is drawn in. Pointer coordinates are interpreted relative to it.",
			InputSchema: objectSchema(map[string]interface{}{
				"left":   prop("number", "Left edge in client coordinates"),
				"top":    prop("number", "Top edge in client coordinates"),
				"width":  prop("number", "Width in pixels (> 0)"),
				"height": prop("number", "Height in pixels (> 0)"),
			}, "width", "height"),
		},
		{
			Name:        "review_set_orientation",
			Description: "Set the view orientation.",
			InputSchema: objectSchema(map[string]interface{}{
				"orientation": enumProp("View orientation", names(view.Orientations)),
			}, "orientation"),
		},
		{
			Name:        "review_set_zoom",
			Description: "Set the zoom factor. Values are clamped to [0.1, 5.0].",
			InputSchema: objectSchema(map[string]interface{}{
				"zoom": prop("number", "Zoom factor"),
			}, "zoom"),
		},
		{
			Name:        "review_set_pan",
			Description: "Set the pan offset in screen pixels.",
			InputSchema: objectSchema(map[string]interface{}{
				"x": prop("number", "Horizontal offset"),
				"y": prop("number", "Vertical offset"),
			}, "x", "y"),
		},
		{
			Name:        "review_set_windowing",
			Description: "Set the windowing level and width used for display contrast.",
			InputSchema: objectSchema(map[string]interface{}{
				"level": prop("number", "Window centre"),
				"width": prop("number", "Window width"),
			}, "level", "width"),
		},
		{
			Name:        "review_reset_view",
			Description: "Reset the view to axial, zoom 1, no pan, windowing level 0 width 255.",
			InputSchema: noArgs(),
		},

		// Pointer input
		{
			Name:        "review_pointer_down",
			Description: "Report a pointer press. The primary button starts a drag.",
			InputSchema: objectSchema(pointerDown, "x", "y"),
		},
		{
			Name:        "review_pointer_move",
			Description: "Report a pointer move. While dragging, the pan follows the pointer.",
			InputSchema: objectSchema(pointerProps(), "x", "y"),
		},
		{
			Name:        "review_pointer_up",
			Description: "Report a pointer release. A release within 5 pixels of the press is a click: the pan is restored and a pending annotation opens at the release point. Returns the gesture and, for clicks, a suggested category and priority.",
			InputSchema: objectSchema(pointerProps(), "x", "y"),
		},
		{
			Name:        "review_wheel",
			Description: "Report a wheel event. Negative delta zooms in, positive zooms out, by 0.1 per event within [0.5, 5.0].",
			InputSchema: objectSchema(map[string]interface{}{
				"delta_y": prop("number", "Wheel delta; only the sign is used"),
			}, "delta_y"),
		},
		{
			Name:        "review_double_click",
			Description: "Report a double-click. Resets the view.",
			InputSchema: noArgs(),
		},

		// Annotations
		{
			Name:        "review_pending_annotation",
			Description: "Get the annotation awaiting input, if any, with a suggested category and priority for its position.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_confirm_annotation",
			Description: "Complete the pending annotation. On a validation error the annotation stays pending so the input can be corrected.",
			InputSchema: objectSchema(annotationProps, "type", "category", "priority"),
		},
		{
			Name:        "review_cancel_annotation",
			Description: "Discard the pending annotation.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_add_annotation",
			Description: "Create an annotation directly at image coordinates without a pointer gesture.",
			InputSchema: objectSchema(addProps, "x", "y", "type", "category", "priority"),
		},
		{
			Name:        "review_list_annotations",
			Description: "List annotations in insertion order, by review priority, or grouped by category and priority.",
			InputSchema: objectSchema(map[string]interface{}{
				"order": withDefault(enumProp("Listing order", []string{"insertion", "priority", "grouped"}), "insertion"),
			}),
		},
		{
			Name:        "review_select_annotation",
			Description: "Select an annotation by id.",
			InputSchema: objectSchema(map[string]interface{}{
				"id": prop("string", "Annotation id"),
			}, "id"),
		},
		{
			Name:        "review_delete_annotation",
			Description: "Delete an annotation by id.",
			InputSchema: objectSchema(map[string]interface{}{
				"id": prop("string", "Annotation id"),
			}, "id"),
		},
		{
			Name:        "review_clear_annotations",
			Description: "Delete every annotation.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_markers",
			Description: "Get screen positions and colours for every annotation under the current pan and zoom.",
			InputSchema: noArgs(),
		},

		// Workflow
		{
			Name:        "review_workflow_state",
			Description: "Get the workflow state, reachable steps and the current step description.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_go_to_step",
			Description: "Navigate to a workflow step. Fails without changing anything when the step is not reachable.",
			InputSchema: objectSchema(map[string]interface{}{
				"step": enumProp("Target step", stepNames()),
			}, "step"),
		},
		{
			Name:        "review_next_step",
			Description: "Move to the next workflow step if reachable.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_previous_step",
			Description: "Move to the previous workflow step.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_complete",
			Description: "Finish the review. Moves to summary and locks navigation.",
			InputSchema: noArgs(),
		},

		// Analysis
		{
			Name:        "review_analyze",
			Description: "Get the recommended view, focus suggestions and metadata insights for the loaded image and its annotations.",
			InputSchema: noArgs(),
		},
		{
			Name:        "review_annotation_context",
			Description: "Suggest a category and priority for a point in image coordinates.",
			InputSchema: objectSchema(map[string]interface{}{
				"x": prop("number", "X in image pixels"),
				"y": prop("number", "Y in image pixels"),
			}, "x", "y"),
		},
		{
			Name:        "review_preview",
			Description: "Render a PNG preview of an annotation's neighbourhood, or of the whole image when no id is given.",
			InputSchema: objectSchema(map[string]interface{}{
				"annotation_id": prop("string", "Annotation to preview"),
				"windowed":      withDefault(prop("boolean", "Apply the current windowing"), false),
				"overlay":       withDefault(prop("boolean", "Draw annotation markers"), true),
			}),
		},
		{
			Name:        "review_intensity",
			Description: "Get intensity statistics and a suggested windowing for an annotation's neighbourhood, a point's neighbourhood, or the whole image.",
			InputSchema: objectSchema(map[string]interface{}{
				"annotation_id": prop("string", "Annotation whose neighbourhood to measure"),
				"x":             prop("number", "X in image pixels, used when no annotation_id is given"),
				"y":             prop("number", "Y in image pixels, used when no annotation_id is given"),
			}),
		},
		{
			Name:        "review_measure",
			Description: "Measure the distance between two annotations. Regions are measured from their centre.",
			InputSchema: objectSchema(map[string]interface{}{
				"from_id": prop("string", "First annotation id"),
				"to_id":   prop("string", "Second annotation id"),
			}, "from_id", "to_id"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
