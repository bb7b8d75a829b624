package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSubmissionNotFound = errors.New("document submission not found")

type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusSent      SubmissionStatus = "sent"
	StatusOpened    SubmissionStatus = "opened"
	StatusCompleted SubmissionStatus = "completed"
	StatusDeclined  SubmissionStatus = "declined"
	StatusExpired   SubmissionStatus = "expired"
	StatusArchived  SubmissionStatus = "archived"
)

// IsTerminal reports whether the status absorbs every further event.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusDeclined || s == StatusExpired || s == StatusArchived
}

// EventKind is the closed set of NextKeySign webhook event types. The provider
// speaks two overlapping vocabularies: form.* reports a single signing party,
// submission.* reports the aggregate and always wins.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventSubmissionCreated
	EventFormViewed
	EventFormStarted
	EventFormCompleted
	EventSubmissionCompleted
	EventFormDeclined
	EventSubmissionExpired
	EventSubmissionArchived
)

var eventKindNames = map[EventKind]string{
	EventUnknown:             "unknown",
	EventSubmissionCreated:   "submission.created",
	EventFormViewed:          "form.viewed",
	EventFormStarted:         "form.started",
	EventFormCompleted:       "form.completed",
	EventSubmissionCompleted: "submission.completed",
	EventFormDeclined:        "form.declined",
	EventSubmissionExpired:   "submission.expired",
	EventSubmissionArchived:  "submission.archived",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEventKind maps a raw event_type string to its kind. Anything the
// service does not know collapses into EventUnknown, which is a no-op.
func ParseEventKind(eventType string) EventKind {
	for kind, name := range eventKindNames {
		if kind != EventUnknown && name == eventType {
			return kind
		}
	}
	return EventUnknown
}

// SubmissionEvent is a decoded webhook event ready to drive a transition.
// OccurredAt is the provider timestamp, or the receipt time when absent.
type SubmissionEvent struct {
	Kind              EventKind
	OccurredAt        time.Time
	SentAt            *time.Time
	OpenedAt          *time.Time
	CompletedAt       *time.Time
	DeclinedAt        *time.Time
	SignedDocumentURL string
	AuditLogURL       string
	DeclineReason     string
}

// DocumentSubmission is one signing request at NextKeySign for one signer and
// one template. Intake submissions hang off an applicant, retainer campaign
// submissions off a recipient.
type DocumentSubmission struct {
	ID                 string           `json:"id"`
	LawFirmID          string           `json:"law_firm_id"`
	ApplicantID        *string          `json:"applicant_id,omitempty"`
	RecipientID        *string          `json:"recipient_id,omitempty"`
	DocumentTemplateID string           `json:"document_template_id"`
	TemplateName       string           `json:"template_name"`
	ProviderID         string           `json:"nextkeysign_submission_id"`
	SubmitterID        string           `json:"nextkeysign_submitter_id"`
	Slug               string           `json:"nextkeysign_slug"`
	ExternalID         string           `json:"external_id"`
	Status             SubmissionStatus `json:"status"`
	SignedDocumentURL  string           `json:"signed_document_url,omitempty"`
	AuditLogURL        string           `json:"audit_log_url,omitempty"`
	DeclineReason      string           `json:"decline_reason,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	SentAt             *time.Time       `json:"sent_at,omitempty"`
	OpenedAt           *time.Time       `json:"opened_at,omitempty"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
	DeclinedAt         *time.Time       `json:"declined_at,omitempty"`
}

func NewDocumentSubmission(lawFirmID, templateID, templateName, providerID, submitterID, slug, externalID string) *DocumentSubmission {
	return &DocumentSubmission{
		ID:                 uuid.New().String(),
		LawFirmID:          lawFirmID,
		DocumentTemplateID: templateID,
		TemplateName:       templateName,
		ProviderID:         providerID,
		SubmitterID:        submitterID,
		Slug:               slug,
		ExternalID:         externalID,
		Status:             StatusPending,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
}

// ApplyEvent advances the submission's lifecycle and reports whether anything
// changed. It is safe under at-least-once delivery: replays and late form.*
// events never regress state or clobber fields set by a submission.* event.
func (s *DocumentSubmission) ApplyEvent(ev SubmissionEvent) bool {
	if s.Status.IsTerminal() {
		return false
	}

	changed := false

	switch ev.Kind {
	case EventSubmissionCreated:
		if s.Status == StatusPending {
			s.Status = StatusSent
			s.SentAt = timestampOr(ev.SentAt, ev.OccurredAt)
			changed = true
		}

	case EventFormViewed, EventFormStarted:
		if s.Status == StatusPending || s.Status == StatusSent {
			s.Status = StatusOpened
			changed = true
		}
		if s.OpenedAt == nil && s.Status == StatusOpened {
			s.OpenedAt = timestampOr(ev.OpenedAt, ev.OccurredAt)
			changed = true
		}

	case EventFormCompleted:
		if s.Status != StatusCompleted {
			s.Status = StatusCompleted
			s.CompletedAt = timestampOr(ev.CompletedAt, ev.OccurredAt)
			changed = true
		}
		// First-party completion only fills blanks. A submission.completed
		// event may already have written the authoritative URLs.
		if s.SignedDocumentURL == "" && ev.SignedDocumentURL != "" {
			s.SignedDocumentURL = ev.SignedDocumentURL
			changed = true
		}
		if s.AuditLogURL == "" && ev.AuditLogURL != "" {
			s.AuditLogURL = ev.AuditLogURL
			changed = true
		}

	case EventSubmissionCompleted:
		if s.Status != StatusCompleted {
			s.Status = StatusCompleted
			changed = true
		}
		s.CompletedAt = timestampOr(ev.CompletedAt, ev.OccurredAt)
		// Aggregate completion is authoritative: overwrite whatever form.*
		// events wrote before.
		if ev.SignedDocumentURL != "" && ev.SignedDocumentURL != s.SignedDocumentURL {
			s.SignedDocumentURL = ev.SignedDocumentURL
			changed = true
		}
		if ev.AuditLogURL != "" && ev.AuditLogURL != s.AuditLogURL {
			s.AuditLogURL = ev.AuditLogURL
			changed = true
		}

	case EventFormDeclined:
		s.Status = StatusDeclined
		s.DeclinedAt = timestampOr(ev.DeclinedAt, ev.OccurredAt)
		s.DeclineReason = ev.DeclineReason
		changed = true

	case EventSubmissionExpired:
		s.Status = StatusExpired
		changed = true

	case EventSubmissionArchived:
		s.Status = StatusArchived
		changed = true

	case EventUnknown:
		// Logged upstream, never a state change.
	}

	if changed {
		s.UpdatedAt = time.Now()
	}
	return changed
}

func timestampOr(t *time.Time, fallback time.Time) *time.Time {
	if t != nil {
		return t
	}
	return &fallback
}

type DocumentSubmissionRepositoryInterface interface {
	Create(ctx context.Context, submission *DocumentSubmission) error
	FindByProviderID(ctx context.Context, providerID string) (*DocumentSubmission, error)
	FindByApplicantID(ctx context.Context, applicantID string) ([]*DocumentSubmission, error)
	FindByRecipientID(ctx context.Context, recipientID string) (*DocumentSubmission, error)
	UpdateStatus(ctx context.Context, id string, status SubmissionStatus) error

	// Transition runs fn against the row identified by the provider submission
	// id inside a row-locked transaction and persists the result when fn
	// reports a change. Returns ErrSubmissionNotFound when no row matches.
	Transition(ctx context.Context, providerID string, fn func(*DocumentSubmission) bool) (*DocumentSubmission, error)
}
