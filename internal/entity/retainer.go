package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBatchNotFound     = errors.New("retainer batch not found")
	ErrRecipientNotFound = errors.New("retainer recipient not found")
)

type BatchStatus string

const (
	BatchUploaded   BatchStatus = "uploaded"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// RetainerBatch is one uploaded spreadsheet of retainer recipients for one
// law firm, tied to the document and email templates the campaign uses.
type RetainerBatch struct {
	ID                 string      `json:"id"`
	LawFirmID          string      `json:"law_firm_id"`
	FileName           string      `json:"file_name"`
	DocumentTemplateID string      `json:"document_template_id"`
	EmailTemplateID    string      `json:"email_template_id"`
	Status             BatchStatus `json:"status"`
	TotalRows          int         `json:"total_rows"`
	ProcessedRows      int         `json:"processed_rows"`
	SuccessfulRows     int         `json:"successful_rows"`
	FailedRows         int         `json:"failed_rows"`
	SkippedRows        int         `json:"skipped_rows"`
	ErrorMessage       string      `json:"error_message,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	StartedAt          *time.Time  `json:"started_at,omitempty"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
}

func NewRetainerBatch(lawFirmID, fileName, documentTemplateID, emailTemplateID string) *RetainerBatch {
	return &RetainerBatch{
		ID:                 uuid.New().String(),
		LawFirmID:          lawFirmID,
		FileName:           fileName,
		DocumentTemplateID: documentTemplateID,
		EmailTemplateID:    emailTemplateID,
		Status:             BatchUploaded,
		CreatedAt:          time.Now(),
	}
}

// SuccessRate is a display percentage over total rows.
func (b *RetainerBatch) SuccessRate() float64 {
	if b.TotalRows == 0 {
		return 0
	}
	return float64(b.SuccessfulRows) / float64(b.TotalRows) * 100
}

type RecipientStatus string

const (
	RecipientPending   RecipientStatus = "pending"
	RecipientSubmitted RecipientStatus = "submitted"
	RecipientCompleted RecipientStatus = "completed"
	RecipientFailed    RecipientStatus = "failed"
	RecipientSkipped   RecipientStatus = "skipped"
)

// RetainerRecipient is one spreadsheet row: a person who should receive a
// retainer agreement to sign.
type RetainerRecipient struct {
	ID                string          `json:"id"`
	BatchID           string          `json:"batch_id"`
	ExternalID        string          `json:"external_id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	State             string          `json:"state,omitempty"`
	ZipCode           string          `json:"zip_code,omitempty"`
	Age               *int            `json:"age,omitempty"`
	FirstNameInjured  string          `json:"first_name_injured,omitempty"`
	LastNameInjured   string          `json:"last_name_injured,omitempty"`
	Status            RecipientStatus `json:"status"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	RetryCount        int             `json:"retry_count"`
	CreatedAt         time.Time       `json:"created_at"`
	LastProcessedAt   *time.Time      `json:"last_processed_at,omitempty"`
}

func NewRetainerRecipient(batchID, externalID, name, email string) *RetainerRecipient {
	return &RetainerRecipient{
		ID:         uuid.New().String(),
		BatchID:    batchID,
		ExternalID: externalID,
		Name:       name,
		Email:      email,
		Status:     RecipientPending,
		CreatedAt:  time.Now(),
	}
}

// InjuredName falls back to the recipient's own name when the injured party
// columns were blank in the spreadsheet.
func (r *RetainerRecipient) InjuredName() string {
	if r.FirstNameInjured != "" && r.LastNameInjured != "" {
		return r.FirstNameInjured + " " + r.LastNameInjured
	}
	return r.Name
}

type RetainerBatchRepositoryInterface interface {
	Create(ctx context.Context, batch *RetainerBatch) error
	FindByID(ctx context.Context, id string) (*RetainerBatch, error)
	Update(ctx context.Context, batch *RetainerBatch) error
}

type RetainerRecipientRepositoryInterface interface {
	Create(ctx context.Context, recipient *RetainerRecipient) error
	FindByID(ctx context.Context, id string) (*RetainerRecipient, error)
	FindByBatchID(ctx context.Context, batchID string) ([]*RetainerRecipient, error)
	Update(ctx context.Context, recipient *RetainerRecipient) error
}
