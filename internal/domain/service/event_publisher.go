package service

import (
	"context"
	"time"
)

// Post lifecycle event types.
const (
	PostEventCreated = "post.created"
	PostEventUpdated = "post.updated"
	PostEventDeleted = "post.deleted"
)

// PostEvent describes a committed change to a post.
type PostEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	PostID     string    `json:"post_id"`
	Slug       string    `json:"slug"`
	AuthorID   string    `json:"author_id"`
	Published  bool      `json:"published"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPostEvent publishes a post lifecycle event
	PublishPostEvent(ctx context.Context, event *PostEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
