package server

import (
	"github.com/ironsheep/image-review-mcp/internal/model"
	"github.com/ironsheep/image-review-mcp/internal/session"
	"github.com/ironsheep/image-review-mcp/internal/view"
	"github.com/ironsheep/image-review-mcp/internal/workflow"
)

// EventMethod is the notification method carrying session events.
const EventMethod = "notifications/review/event"

// Event types.
const (
	EventViewStateChanged   = "view_state_changed"
	EventAnnotationCreated  = "annotation_created"
	EventAnnotationSelected = "annotation_selected"
	EventAnnotationDeleted  = "annotation_deleted"
	EventStepChanged        = "step_changed"
)

// ReviewEvent is the params object of an EventMethod notification. Only the
// field matching Type is set.
type ReviewEvent struct {
	Type         string            `json:"type"`
	ViewState    *view.State       `json:"view_state,omitempty"`
	Annotation   *model.Annotation `json:"annotation,omitempty"`
	AnnotationID string            `json:"annotation_id,omitempty"`
	Step         *workflow.Step    `json:"step,omitempty"`
}

func (s *Server) sessionEvents() session.Events {
	return session.Events{
		ViewStateChanged: func(st view.State) {
			s.queue(ReviewEvent{Type: EventViewStateChanged, ViewState: &st})
		},
		AnnotationCreated: func(a model.Annotation) {
			s.queue(ReviewEvent{Type: EventAnnotationCreated, Annotation: &a})
		},
		AnnotationSelected: func(a model.Annotation) {
			s.queue(ReviewEvent{Type: EventAnnotationSelected, Annotation: &a})
		},
		AnnotationDeleted: func(id string) {
			s.queue(ReviewEvent{Type: EventAnnotationDeleted, AnnotationID: id})
		},
		StepChanged: func(step workflow.Step) {
			s.queue(ReviewEvent{Type: EventStepChanged, Step: &step})
		},
	}
}

func (s *Server) queue(e ReviewEvent) {
	s.events = append(s.events, MCPNotification{
		JSONRPC: "2.0",
		Method:  EventMethod,
		Params:  e,
	})
}

// drainEvents returns and clears the queued notifications.
func (s *Server) drainEvents() []MCPNotification {
	out := s.events
	s.events = nil
	return out
}
