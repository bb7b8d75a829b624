package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type WebhookEventRepository struct {
	DB *sql.DB
}

func NewWebhookEventRepository(db *sql.DB) *WebhookEventRepository {
	return &WebhookEventRepository{DB: db}
}

func (r *WebhookEventRepository) Create(ctx context.Context, event *entity.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, document_submission_id, event_type, payload, processed, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		event.ID,
		event.DocumentSubmissionID,
		event.EventType,
		[]byte(event.Payload),
		event.Processed,
		nullString(event.ErrorMessage),
		event.CreatedAt,
	)
	return err
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id string) error {
	query := `UPDATE webhook_events SET processed = true WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *WebhookEventRepository) FindBySubmissionID(ctx context.Context, submissionID string) ([]*entity.WebhookEvent, error) {
	query := `
		SELECT id, document_submission_id, event_type, payload, processed, error_message, created_at
		FROM webhook_events
		WHERE document_submission_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.WebhookEvent
	for rows.Next() {
		var ev entity.WebhookEvent
		var payload []byte
		var errMsg sql.NullString

		err := rows.Scan(&ev.ID, &ev.DocumentSubmissionID, &ev.EventType, &payload, &ev.Processed, &errMsg, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}

		ev.Payload = payload
		ev.ErrorMessage = errMsg.String
		events = append(events, &ev)
	}
	return events, rows.Err()
}
