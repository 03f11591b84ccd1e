package server

import (
	"context"

	"blogmesh/internal/middleware"
	"blogmesh/internal/notifications"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventCommentUpdated = "comment_updated"
	EventCommentDeleted = "comment_deleted"
)

// publishBroadcastEvent is best-effort: a failed publish is logged and the
// request still succeeds.
func (s *Server) publishBroadcastEvent(eventType string, payload map[string]any) {
	event := notifications.Event{Type: eventType, Payload: payload}
	if err := s.notifier.PublishBroadcast(context.Background(), event); err != nil {
		middleware.Logger.Warn("failed to publish broadcast event", "type", eventType, "error", err)
	}
}
