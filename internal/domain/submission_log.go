package domain

import (
	"context"
	"time"
)

// SubmissionRecord is the audit row written once a submission settles.
// Only field names are kept, never values.
type SubmissionRecord struct {
	ID            int64            `json:"id"`
	InstanceID    string           `json:"instance_id"`
	FormType      FormType         `json:"form_type"`
	Status        SubmissionStatus `json:"status"`
	Message       string           `json:"message"`
	FieldNames    []string         `json:"field_names"`
	HasAttachment bool             `json:"has_attachment"`
	RequestID     string           `json:"request_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type SubmissionLogRepository interface {
	Create(ctx context.Context, rec *SubmissionRecord) error
}

// LeadEvent is published after a submission settles
type LeadEvent struct {
	InstanceID string           `json:"instance_id"`
	FormType   FormType         `json:"form_type"`
	Status     SubmissionStatus `json:"status"`
	Message    string           `json:"message"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type EventPublisher interface {
	PublishLead(ctx context.Context, event LeadEvent) error
}
