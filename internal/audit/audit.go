// Package audit records the decisions and stage transitions that make the
// verification pipeline reproducible after the fact.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names the audited operation.
type Action string

const (
	ActionApplicationInitiated Action = "application_initiated"
	ActionDocumentUploaded     Action = "document_uploaded"
	ActionStageTransition      Action = "stage_transition"
	ActionDecisionMade         Action = "decision_made"
)

// Event is one audit record. Keep it transport-agnostic so stores and sinks
// can fan out.
type Event struct {
	ID            uuid.UUID      `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Action        Action         `json:"action"`
	ApplicationID string         `json:"application_id"`
	UserID        string         `json:"user_id,omitempty"`
	Stage         string         `json:"stage,omitempty"`
	Status        string         `json:"status,omitempty"`
	Decision      string         `json:"decision,omitempty"`
	RequestID     string         `json:"request_id,omitempty"`
	Detail        map[string]any `json:"detail,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplication(ctx context.Context, applicationID string) ([]Event, error)
}

// Sink forwards audit events to an external system, e.g. a Kafka topic.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
