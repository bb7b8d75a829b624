package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type RetainerBatchRepository struct {
	DB *sql.DB
}

func NewRetainerBatchRepository(db *sql.DB) *RetainerBatchRepository {
	return &RetainerBatchRepository{DB: db}
}

func (r *RetainerBatchRepository) Create(ctx context.Context, b *entity.RetainerBatch) error {
	query := `
		INSERT INTO retainer_batches (
			id, law_firm_id, file_name, document_template_id, email_template_id,
			status, total_rows, processed_rows, successful_rows, failed_rows,
			skipped_rows, error_message, created_at, started_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.DB.ExecContext(ctx, query,
		b.ID,
		b.LawFirmID,
		b.FileName,
		b.DocumentTemplateID,
		b.EmailTemplateID,
		b.Status,
		b.TotalRows,
		b.ProcessedRows,
		b.SuccessfulRows,
		b.FailedRows,
		b.SkippedRows,
		nullString(b.ErrorMessage),
		b.CreatedAt,
		b.StartedAt,
		b.CompletedAt,
	)
	return err
}

func (r *RetainerBatchRepository) FindByID(ctx context.Context, id string) (*entity.RetainerBatch, error) {
	query := `
		SELECT id, law_firm_id, file_name, document_template_id, email_template_id,
		       status, total_rows, processed_rows, successful_rows, failed_rows,
		       skipped_rows, error_message, created_at, started_at, completed_at
		FROM retainer_batches
		WHERE id = $1
	`

	var b entity.RetainerBatch
	var errMsg sql.NullString
	var startedAt, completedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.LawFirmID,
		&b.FileName,
		&b.DocumentTemplateID,
		&b.EmailTemplateID,
		&b.Status,
		&b.TotalRows,
		&b.ProcessedRows,
		&b.SuccessfulRows,
		&b.FailedRows,
		&b.SkippedRows,
		&errMsg,
		&b.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrBatchNotFound
		}
		return nil, err
	}

	b.ErrorMessage = errMsg.String
	b.StartedAt = timePtr(startedAt)
	b.CompletedAt = timePtr(completedAt)
	return &b, nil
}

func (r *RetainerBatchRepository) Update(ctx context.Context, b *entity.RetainerBatch) error {
	query := `
		UPDATE retainer_batches
		SET status = $2, total_rows = $3, processed_rows = $4, successful_rows = $5,
		    failed_rows = $6, skipped_rows = $7, error_message = $8, started_at = $9,
		    completed_at = $10
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		b.ID,
		b.Status,
		b.TotalRows,
		b.ProcessedRows,
		b.SuccessfulRows,
		b.FailedRows,
		b.SkippedRows,
		nullString(b.ErrorMessage),
		b.StartedAt,
		b.CompletedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrBatchNotFound
	}
	return nil
}

type RetainerRecipientRepository struct {
	DB *sql.DB
}

func NewRetainerRecipientRepository(db *sql.DB) *RetainerRecipientRepository {
	return &RetainerRecipientRepository{DB: db}
}

const recipientColumns = `
	id, batch_id, external_id, name, email, phone, state, zip_code, age,
	first_name_injured, last_name_injured, status, error_message, retry_count,
	created_at, last_processed_at
`

func (r *RetainerRecipientRepository) Create(ctx context.Context, rec *entity.RetainerRecipient) error {
	query := `
		INSERT INTO retainer_recipients (` + recipientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.BatchID,
		rec.ExternalID,
		rec.Name,
		rec.Email,
		nullString(rec.Phone),
		nullString(rec.State),
		nullString(rec.ZipCode),
		rec.Age,
		nullString(rec.FirstNameInjured),
		nullString(rec.LastNameInjured),
		rec.Status,
		nullString(rec.ErrorMessage),
		rec.RetryCount,
		rec.CreatedAt,
		rec.LastProcessedAt,
	)
	return err
}

func (r *RetainerRecipientRepository) FindByID(ctx context.Context, id string) (*entity.RetainerRecipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM retainer_recipients WHERE id = $1`
	rec, err := scanRecipient(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrRecipientNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *RetainerRecipientRepository) FindByBatchID(ctx context.Context, batchID string) ([]*entity.RetainerRecipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM retainer_recipients WHERE batch_id = $1 ORDER BY created_at`

	rows, err := r.DB.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*entity.RetainerRecipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func (r *RetainerRecipientRepository) Update(ctx context.Context, rec *entity.RetainerRecipient) error {
	query := `
		UPDATE retainer_recipients
		SET status = $2, error_message = $3, retry_count = $4, last_processed_at = $5
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Status,
		nullString(rec.ErrorMessage),
		rec.RetryCount,
		rec.LastProcessedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrRecipientNotFound
	}
	return nil
}

func scanRecipient(row rowScanner) (*entity.RetainerRecipient, error) {
	var rec entity.RetainerRecipient
	var phone, state, zip, firstInjured, lastInjured, errMsg sql.NullString
	var age sql.NullInt64
	var lastProcessed sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.BatchID,
		&rec.ExternalID,
		&rec.Name,
		&rec.Email,
		&phone,
		&state,
		&zip,
		&age,
		&firstInjured,
		&lastInjured,
		&rec.Status,
		&errMsg,
		&rec.RetryCount,
		&rec.CreatedAt,
		&lastProcessed,
	)
	if err != nil {
		return nil, err
	}

	rec.Phone = phone.String
	rec.State = state.String
	rec.ZipCode = zip.String
	rec.FirstNameInjured = firstInjured.String
	rec.LastNameInjured = lastInjured.String
	rec.ErrorMessage = errMsg.String
	if age.Valid {
		a := int(age.Int64)
		rec.Age = &a
	}
	rec.LastProcessedAt = timePtr(lastProcessed)
	return &rec, nil
}
