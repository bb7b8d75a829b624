package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type DocumentSubmissionRepository struct {
	DB *sql.DB
}

func NewDocumentSubmissionRepository(db *sql.DB) *DocumentSubmissionRepository {
	return &DocumentSubmissionRepository{DB: db}
}

const submissionColumns = `
	id, law_firm_id, applicant_id, recipient_id, document_template_id, template_name,
	provider_id, submitter_id, slug, external_id, status, signed_document_url,
	audit_log_url, decline_reason, created_at, updated_at, sent_at, opened_at,
	completed_at, declined_at
`

func (r *DocumentSubmissionRepository) Create(ctx context.Context, s *entity.DocumentSubmission) error {
	query := `
		INSERT INTO document_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID,
		s.LawFirmID,
		s.ApplicantID,
		s.RecipientID,
		s.DocumentTemplateID,
		s.TemplateName,
		s.ProviderID,
		s.SubmitterID,
		s.Slug,
		s.ExternalID,
		s.Status,
		nullString(s.SignedDocumentURL),
		nullString(s.AuditLogURL),
		nullString(s.DeclineReason),
		s.CreatedAt,
		s.UpdatedAt,
		s.SentAt,
		s.OpenedAt,
		s.CompletedAt,
		s.DeclinedAt,
	)
	return err
}

func (r *DocumentSubmissionRepository) FindByProviderID(ctx context.Context, providerID string) (*entity.DocumentSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM document_submissions WHERE provider_id = $1`
	return scanSubmission(r.DB.QueryRowContext(ctx, query, providerID))
}

func (r *DocumentSubmissionRepository) FindByApplicantID(ctx context.Context, applicantID string) ([]*entity.DocumentSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM document_submissions
		WHERE applicant_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*entity.DocumentSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *DocumentSubmissionRepository) FindByRecipientID(ctx context.Context, recipientID string) (*entity.DocumentSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM document_submissions
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanSubmission(r.DB.QueryRowContext(ctx, query, recipientID))
}

func (r *DocumentSubmissionRepository) UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) error {
	query := `UPDATE document_submissions SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrSubmissionNotFound
	}
	return nil
}

// Transition loads the row under FOR UPDATE, runs fn, and persists the result
// when fn reports a change. Concurrent webhook deliveries for the same
// submission serialize here instead of clobbering each other.
func (r *DocumentSubmissionRepository) Transition(ctx context.Context, providerID string, fn func(*entity.DocumentSubmission) bool) (*entity.DocumentSubmission, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + submissionColumns + ` FROM document_submissions WHERE provider_id = $1 FOR UPDATE`
	sub, err := scanSubmission(tx.QueryRowContext(ctx, query, providerID))
	if err != nil {
		return nil, err
	}

	if !fn(sub) {
		return sub, tx.Commit()
	}

	update := `
		UPDATE document_submissions
		SET status = $2, signed_document_url = $3, audit_log_url = $4,
		    decline_reason = $5, updated_at = $6, sent_at = $7, opened_at = $8,
		    completed_at = $9, declined_at = $10
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, update,
		sub.ID,
		sub.Status,
		nullString(sub.SignedDocumentURL),
		nullString(sub.AuditLogURL),
		nullString(sub.DeclineReason),
		sub.UpdatedAt,
		sub.SentAt,
		sub.OpenedAt,
		sub.CompletedAt,
		sub.DeclinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("persist transition for %s: %w", sub.ID, err)
	}

	return sub, tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*entity.DocumentSubmission, error) {
	var s entity.DocumentSubmission
	var applicantID, recipientID, signedURL, auditURL, declineReason sql.NullString
	var sentAt, openedAt, completedAt, declinedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.LawFirmID,
		&applicantID,
		&recipientID,
		&s.DocumentTemplateID,
		&s.TemplateName,
		&s.ProviderID,
		&s.SubmitterID,
		&s.Slug,
		&s.ExternalID,
		&s.Status,
		&signedURL,
		&auditURL,
		&declineReason,
		&s.CreatedAt,
		&s.UpdatedAt,
		&sentAt,
		&openedAt,
		&completedAt,
		&declinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSubmissionNotFound
		}
		return nil, err
	}

	if applicantID.Valid {
		s.ApplicantID = &applicantID.String
	}
	if recipientID.Valid {
		s.RecipientID = &recipientID.String
	}
	s.SignedDocumentURL = signedURL.String
	s.AuditLogURL = auditURL.String
	s.DeclineReason = declineReason.String
	s.SentAt = timePtr(sentAt)
	s.OpenedAt = timePtr(openedAt)
	s.CompletedAt = timePtr(completedAt)
	s.DeclinedAt = timePtr(declinedAt)
	return &s, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
