package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
)

// ProcessWebhookUseCase ingests NextKeySign callbacks: append an audit row,
// then advance the submission's state machine under a row lock. Delivery is
// at-least-once and unordered, so every mutation goes through
// DocumentSubmission.ApplyEvent, which tolerates replays and stale events.
type ProcessWebhookUseCase struct {
	SubmissionRepo entity.DocumentSubmissionRepositoryInterface
	EventRepo      entity.WebhookEventRepositoryInterface
	RecipientRepo  entity.RetainerRecipientRepositoryInterface
}

func NewProcessWebhookUseCase(
	submissionRepo entity.DocumentSubmissionRepositoryInterface,
	eventRepo entity.WebhookEventRepositoryInterface,
	recipientRepo entity.RetainerRecipientRepositoryInterface,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		SubmissionRepo: submissionRepo,
		EventRepo:      eventRepo,
		RecipientRepo:  recipientRepo,
	}
}

// WebhookOutcome is what the handler needs to answer the provider. Matched is
// false when no submission corresponds to the payload; the provider still gets
// a success response so it stops retrying.
type WebhookOutcome struct {
	Matched    bool
	Kind       entity.EventKind
	Changed    bool
	Submission *entity.DocumentSubmission
}

// webhookEnvelope is the outer shape every NextKeySign callback shares.
type webhookEnvelope struct {
	EventType string          `json:"event_type"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// webhookData is the union of the fields the two event families carry. IDs
// arrive as JSON numbers or strings depending on provider version.
type webhookData struct {
	ID           flexID `json:"id"`
	SubmissionID flexID `json:"submission_id"`

	OpenedAt      string `json:"opened_at"`
	CompletedAt   string `json:"completed_at"`
	DeclinedAt    string `json:"declined_at"`
	DeclineReason string `json:"decline_reason"`
	AuditLogURL   string `json:"audit_log_url"`

	Documents []struct {
		URL string `json:"url"`
	} `json:"documents"`

	// form.completed nests the parent submission with the combined document.
	Submission struct {
		CombinedDocumentURL string `json:"combined_document_url"`
		AuditLogURL         string `json:"audit_log_url"`
	} `json:"submission"`

	Submitters []struct {
		SentAt    string `json:"sent_at"`
		Documents []struct {
			URL string `json:"url"`
		} `json:"documents"`
	} `json:"submitters"`
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, rawPayload json.RawMessage, receivedAt time.Time) (*WebhookOutcome, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(rawPayload, &env); err != nil {
		return nil, NewDomainError("INVALID_PAYLOAD", "body is not valid JSON")
	}

	var data webhookData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, NewDomainError("INVALID_PAYLOAD", "data is not an object")
		}
	}

	kind := entity.ParseEventKind(env.EventType)

	providerID := providerSubmissionID(env.EventType, data)
	if providerID == "" {
		return nil, NewDomainError("MISSING_SUBMISSION_ID", "payload carries no submission id")
	}

	sub, err := uc.SubmissionRepo.FindByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, entity.ErrSubmissionNotFound) {
			// Not ours (other environment, deleted record). Acknowledge so the
			// provider stops retrying; nothing to record.
			log.Printf("⚠️ Webhook %s for unknown submission %s, ignoring", env.EventType, providerID)
			return &WebhookOutcome{Matched: false, Kind: kind}, nil
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	event := entity.NewWebhookEvent(sub.ID, env.EventType, rawPayload)
	if err := uc.EventRepo.Create(ctx, event); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: fmt.Sprintf("failed to record webhook event: %s", err)}
	}

	if kind == entity.EventUnknown {
		// Audit row stays with processed=false; no state to change.
		log.Printf("⚠️ Unknown webhook event_type %q for submission %s", env.EventType, sub.ID)
		return &WebhookOutcome{Matched: true, Kind: kind, Submission: sub}, nil
	}

	ev := buildSubmissionEvent(kind, env, data, receivedAt)

	changed := false
	updated, err := uc.SubmissionRepo.Transition(ctx, providerID, func(s *entity.DocumentSubmission) bool {
		changed = s.ApplyEvent(ev)
		return changed
	})
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: fmt.Sprintf("failed to transition submission: %s", err)}
	}

	if err := uc.EventRepo.MarkProcessed(ctx, event.ID); err != nil {
		log.Printf("⚠️ Webhook event %s applied but not marked processed: %s", event.ID, err)
	}

	if changed {
		log.Printf("🔔 Webhook %s: submission %s -> %s", env.EventType, updated.ID, updated.Status)
		uc.syncRecipient(ctx, updated)
	}

	return &WebhookOutcome{Matched: true, Kind: kind, Changed: changed, Submission: updated}, nil
}

// syncRecipient mirrors terminal/completed submission states onto the retainer
// recipient row so batch progress queries stay accurate.
func (uc *ProcessWebhookUseCase) syncRecipient(ctx context.Context, sub *entity.DocumentSubmission) {
	if sub.RecipientID == nil || uc.RecipientRepo == nil {
		return
	}

	recipient, err := uc.RecipientRepo.FindByID(ctx, *sub.RecipientID)
	if err != nil {
		log.Printf("⚠️ Recipient %s lookup failed during webhook sync: %s", *sub.RecipientID, err)
		return
	}

	switch sub.Status {
	case entity.StatusCompleted:
		recipient.Status = entity.RecipientCompleted
	case entity.StatusDeclined:
		recipient.Status = entity.RecipientFailed
		recipient.ErrorMessage = "declined: " + sub.DeclineReason
	case entity.StatusExpired:
		recipient.Status = entity.RecipientFailed
		recipient.ErrorMessage = "submission expired"
	default:
		return
	}

	now := time.Now()
	recipient.LastProcessedAt = &now
	if err := uc.RecipientRepo.Update(ctx, recipient); err != nil {
		log.Printf("⚠️ Recipient %s status sync failed: %s", recipient.ID, err)
	}
}

// providerSubmissionID finds the submission identifier where the event family
// puts it: form.* events reference the parent via submission_id, submission.*
// events are the submission and use id.
func providerSubmissionID(eventType string, data webhookData) string {
	if strings.HasPrefix(eventType, "form.") {
		return string(data.SubmissionID)
	}
	if strings.HasPrefix(eventType, "submission.") {
		return string(data.ID)
	}
	// Unrecognized family: take whichever is present so the audit row can
	// still be linked.
	if data.SubmissionID != "" {
		return string(data.SubmissionID)
	}
	return string(data.ID)
}

func buildSubmissionEvent(kind entity.EventKind, env webhookEnvelope, data webhookData, receivedAt time.Time) entity.SubmissionEvent {
	ev := entity.SubmissionEvent{
		Kind:          kind,
		OccurredAt:    receivedAt,
		OpenedAt:      parseProviderTime(data.OpenedAt),
		CompletedAt:   parseProviderTime(data.CompletedAt),
		DeclinedAt:    parseProviderTime(data.DeclinedAt),
		DeclineReason: data.DeclineReason,
		AuditLogURL:   data.AuditLogURL,
	}
	if t := parseProviderTime(env.Timestamp); t != nil {
		ev.OccurredAt = *t
	}

	if len(data.Documents) > 0 {
		ev.SignedDocumentURL = data.Documents[0].URL
	}

	switch kind {
	case entity.EventSubmissionCreated:
		if len(data.Submitters) > 0 {
			ev.SentAt = parseProviderTime(data.Submitters[0].SentAt)
		}
	case entity.EventFormCompleted:
		// Prefer the combined document of the parent submission when present.
		if data.Submission.CombinedDocumentURL != "" {
			ev.SignedDocumentURL = data.Submission.CombinedDocumentURL
		}
		if ev.AuditLogURL == "" {
			ev.AuditLogURL = data.Submission.AuditLogURL
		}
	case entity.EventSubmissionCompleted:
		if ev.SignedDocumentURL == "" {
			for _, s := range data.Submitters {
				if len(s.Documents) > 0 {
					ev.SignedDocumentURL = s.Documents[0].URL
					break
				}
			}
		}
	}

	return ev
}

func parseProviderTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999-07:00", "2006-01-02 15:04:05 MST"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// flexID accepts a JSON number or string and normalizes it to a string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}
