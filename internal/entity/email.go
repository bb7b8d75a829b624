package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmailTemplateNotFound = errors.New("email template not found")

// Well-known email template names used by the intake workflow.
const (
	EmailRejected           = "rejected"
	EmailEligibleNoParent   = "eligible_no_parent"
	EmailEligibleWithParent = "eligible_with_parent"
	EmailFloridaDisclosure  = "florida_disclosure"
)

// EmailTemplate is a stored subject/body pair with placeholder substitution.
// A nil LawFirmID makes the template global.
type EmailTemplate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TemplateType string    `json:"template_type"`
	LawFirmID    *string   `json:"law_firm_id,omitempty"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// EmailLog records every send attempt, successful or not.
type EmailLog struct {
	ID           string      `json:"id"`
	LawFirmID    string      `json:"law_firm_id"`
	FromEmail    string      `json:"from_email"`
	ToEmail      string      `json:"to_email"`
	Subject      string      `json:"subject"`
	Body         string      `json:"body"`
	Status       EmailStatus `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	TemplateID   *string     `json:"template_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	SentAt       *time.Time  `json:"sent_at,omitempty"`
}

func NewEmailLog(lawFirmID, from, to, subject, body string, templateID *string) *EmailLog {
	return &EmailLog{
		ID:         uuid.New().String(),
		LawFirmID:  lawFirmID,
		FromEmail:  from,
		ToEmail:    to,
		Subject:    subject,
		Body:       body,
		Status:     EmailPending,
		TemplateID: templateID,
		CreatedAt:  time.Now(),
	}
}

type EmailTemplateRepositoryInterface interface {
	Create(ctx context.Context, template *EmailTemplate) error
	FindByID(ctx context.Context, id string) (*EmailTemplate, error)
	FindForLawFirm(ctx context.Context, name, lawFirmID string) (*EmailTemplate, error)
}

type EmailLogRepositoryInterface interface {
	Create(ctx context.Context, log *EmailLog) error
	UpdateStatus(ctx context.Context, id string, status EmailStatus, errorMessage string) error
}
