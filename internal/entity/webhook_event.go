package entity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WebhookEvent is the append-only audit log of provider callbacks. One row per
// received call, duplicates included. Only Processed flips after creation.
type WebhookEvent struct {
	ID                   string          `json:"id"`
	DocumentSubmissionID string          `json:"document_submission_id"`
	EventType            string          `json:"event_type"`
	Payload              json.RawMessage `json:"payload"`
	Processed            bool            `json:"processed"`
	ErrorMessage         string          `json:"error_message,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

func NewWebhookEvent(submissionID, eventType string, payload json.RawMessage) *WebhookEvent {
	return &WebhookEvent{
		ID:                   uuid.New().String(),
		DocumentSubmissionID: submissionID,
		EventType:            eventType,
		Payload:              payload,
		Processed:            false,
		CreatedAt:            time.Now(),
	}
}

type WebhookEventRepositoryInterface interface {
	Create(ctx context.Context, event *WebhookEvent) error
	MarkProcessed(ctx context.Context, id string) error
	FindBySubmissionID(ctx context.Context, submissionID string) ([]*WebhookEvent, error)
}
