package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type EmailTemplateRepository struct {
	DB *sql.DB
}

func NewEmailTemplateRepository(db *sql.DB) *EmailTemplateRepository {
	return &EmailTemplateRepository{DB: db}
}

const emailTemplateColumns = `
	id, name, template_type, law_firm_id, subject, body, active, created_at, updated_at
`

func (r *EmailTemplateRepository) Create(ctx context.Context, t *entity.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (` + emailTemplateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.TemplateType,
		t.LawFirmID,
		t.Subject,
		t.Body,
		t.Active,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *EmailTemplateRepository) FindByID(ctx context.Context, id string) (*entity.EmailTemplate, error) {
	query := `SELECT ` + emailTemplateColumns + ` FROM email_templates WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *EmailTemplateRepository) FindForLawFirm(ctx context.Context, name, lawFirmID string) (*entity.EmailTemplate, error) {
	query := `
		SELECT ` + emailTemplateColumns + `
		FROM email_templates
		WHERE name = $1 AND active = true AND (law_firm_id = $2 OR law_firm_id IS NULL)
		ORDER BY law_firm_id NULLS LAST
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, name, lawFirmID))
}

func (r *EmailTemplateRepository) scanOne(row *sql.Row) (*entity.EmailTemplate, error) {
	var t entity.EmailTemplate
	var lawFirmID sql.NullString

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.TemplateType,
		&lawFirmID,
		&t.Subject,
		&t.Body,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEmailTemplateNotFound
		}
		return nil, err
	}

	if lawFirmID.Valid {
		t.LawFirmID = &lawFirmID.String
	}
	return &t, nil
}

type EmailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) *EmailLogRepository {
	return &EmailLogRepository{DB: db}
}

func (r *EmailLogRepository) Create(ctx context.Context, l *entity.EmailLog) error {
	query := `
		INSERT INTO email_logs (id, law_firm_id, from_email, to_email, subject, body, status, error_message, template_id, created_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.LawFirmID,
		l.FromEmail,
		l.ToEmail,
		l.Subject,
		l.Body,
		l.Status,
		nullString(l.ErrorMessage),
		l.TemplateID,
		l.CreatedAt,
		l.SentAt,
	)
	return err
}

func (r *EmailLogRepository) UpdateStatus(ctx context.Context, id string, status entity.EmailStatus, errorMessage string) error {
	query := `UPDATE email_logs SET status = $2, error_message = $3, sent_at = $4 WHERE id = $1`

	var sentAt *time.Time
	if status == entity.EmailSent {
		now := time.Now()
		sentAt = &now
	}

	_, err := r.DB.ExecContext(ctx, query, id, status, nullString(errorMessage), sentAt)
	return err
}
