// Package server implements the MCP (Model Context Protocol) server for
// interactive image review.
//
// This package provides a JSON-RPC 2.0 server that drives one review session:
// a loaded image, its view state, the guided workflow and the reviewer's
// annotations. Pointer and wheel input arrive as tool calls, so a client can
// replay what a reviewer does on screen.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - review_load_image, review_reset_session
//
// View:
//   - review_view_state, review_set_viewport, review_set_orientation,
//     review_set_zoom, review_set_pan, review_set_windowing, review_reset_view
//
// Pointer input:
//   - review_pointer_down, review_pointer_move, review_pointer_up,
//     review_wheel, review_double_click
//
// Annotations:
//   - review_pending_annotation, review_confirm_annotation,
//     review_cancel_annotation, review_add_annotation,
//     review_list_annotations, review_select_annotation,
//     review_delete_annotation, review_clear_annotations, review_markers
//
// Workflow:
//   - review_workflow_state, review_go_to_step, review_next_step,
//     review_previous_step, review_complete
//
// Analysis:
//   - review_analyze, review_annotation_context, review_preview,
//     review_intensity, review_measure
//
// # Events
//
// View changes, annotation creation, selection and deletion, and step changes
// are written as "notifications/review/event" notifications after the
// response of the call that caused them.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with code -32000.
// Rejected input uses the message "Validation failed" with the reason in
// data. Anything else uses "Tool execution failed" with a generic message in
// data; the underlying error goes to the log. Unknown tools and malformed
// params use -32602.
//
// # Usage
//
//	srv := server.New(server.Options{Config: cfg, Logger: logger})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
