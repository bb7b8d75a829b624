package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/excel"
	"github.com/xavierca1/legal-intake/internal/infra/queue"
)

// ImportRetainerBatchUseCase turns an uploaded .xlsx into recipient rows and
// one queued job per valid recipient. Parsing and row creation happen in the
// request; the provider submission and email happen on the worker.
type ImportRetainerBatchUseCase struct {
	BatchRepo         entity.RetainerBatchRepositoryInterface
	RecipientRepo     entity.RetainerRecipientRepositoryInterface
	TemplateRepo      entity.DocumentTemplateRepositoryInterface
	EmailTemplateRepo entity.EmailTemplateRepositoryInterface
	LawFirmRepo       entity.LawFirmRepositoryInterface
	Producer          QueueProducerInterface
}

func NewImportRetainerBatchUseCase(
	batchRepo entity.RetainerBatchRepositoryInterface,
	recipientRepo entity.RetainerRecipientRepositoryInterface,
	templateRepo entity.DocumentTemplateRepositoryInterface,
	emailTemplateRepo entity.EmailTemplateRepositoryInterface,
	lawFirmRepo entity.LawFirmRepositoryInterface,
	producer QueueProducerInterface,
) *ImportRetainerBatchUseCase {
	return &ImportRetainerBatchUseCase{
		BatchRepo:         batchRepo,
		RecipientRepo:     recipientRepo,
		TemplateRepo:      templateRepo,
		EmailTemplateRepo: emailTemplateRepo,
		LawFirmRepo:       lawFirmRepo,
		Producer:          producer,
	}
}

func (uc *ImportRetainerBatchUseCase) Execute(ctx context.Context, input ImportBatchInput) (*entity.RetainerBatch, error) {
	if input.LawFirmID == "" {
		return nil, NewDomainError("VALIDATION_ERROR", "law_firm_id is required")
	}
	if input.File == nil {
		return nil, NewDomainError("VALIDATION_ERROR", "file is required")
	}

	firm, err := uc.LawFirmRepo.FindByID(ctx, input.LawFirmID)
	if err != nil {
		if errors.Is(err, entity.ErrLawFirmNotFound) {
			return nil, NewDomainError("LAW_FIRM_NOT_FOUND", "law firm not found")
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if !firm.HasEmailConfig() {
		return nil, NewDomainError("SMTP_NOT_CONFIGURED", "law firm has no SMTP configuration")
	}

	if _, err := uc.TemplateRepo.FindByID(ctx, input.DocumentTemplateID); err != nil {
		if errors.Is(err, entity.ErrTemplateNotFound) {
			return nil, NewDomainError("TEMPLATE_NOT_FOUND", "document template not found")
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if _, err := uc.EmailTemplateRepo.FindByID(ctx, input.EmailTemplateID); err != nil {
		if errors.Is(err, entity.ErrEmailTemplateNotFound) {
			return nil, NewDomainError("TEMPLATE_NOT_FOUND", "email template not found")
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	batch := entity.NewRetainerBatch(firm.ID, input.FileName, input.DocumentTemplateID, input.EmailTemplateID)
	if err := uc.BatchRepo.Create(ctx, batch); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: fmt.Sprintf("failed to create batch: %s", err)}
	}

	rows, err := excel.ReadRecipientSheet(input.File)
	if err != nil {
		batch.Status = entity.BatchFailed
		batch.ErrorMessage = err.Error()
		if updErr := uc.BatchRepo.Update(ctx, batch); updErr != nil {
			log.Printf("❌ Batch %s failed and could not be updated: %s", batch.ID, updErr)
		}
		return nil, NewDomainError("INVALID_SPREADSHEET", err.Error())
	}

	now := time.Now()
	batch.Status = entity.BatchProcessing
	batch.StartedAt = &now
	batch.TotalRows = len(rows)
	if err := uc.BatchRepo.Update(ctx, batch); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	for i, row := range rows {
		if !row.Valid() || !isValidEmail(row.Email) || !isValidStateCode(row.State) {
			log.Printf("⚠️ Batch %s row %d skipped (missing or invalid cells)", batch.ID, i+2)
			batch.SkippedRows++
			continue
		}

		recipient := entity.NewRetainerRecipient(batch.ID, row.ExternalID, row.Name, row.Email)
		recipient.Phone = row.Phone
		recipient.State = row.State
		recipient.ZipCode = row.ZipCode
		recipient.Age = row.Age
		recipient.FirstNameInjured = row.FirstNameInjured
		recipient.LastNameInjured = row.LastNameInjured

		if err := uc.RecipientRepo.Create(ctx, recipient); err != nil {
			log.Printf("❌ Batch %s row %d: recipient insert failed: %s", batch.ID, i+2, err)
			batch.FailedRows++
			continue
		}

		err := uc.Producer.PublishRetainerJob(ctx, queue.RetainerJobPayload{
			Kind:        queue.JobCreateSubmission,
			RecipientID: recipient.ID,
			BatchID:     batch.ID,
			LawFirmID:   firm.ID,
		})
		if err != nil {
			log.Printf("❌ Batch %s: publish failed for recipient %s: %s", batch.ID, recipient.ID, err)
			recipient.Status = entity.RecipientFailed
			recipient.ErrorMessage = "queue publish failed"
			if updErr := uc.RecipientRepo.Update(ctx, recipient); updErr != nil {
				log.Printf("❌ Recipient %s could not be marked failed: %s", recipient.ID, updErr)
			}
			batch.FailedRows++
			continue
		}

		batch.SuccessfulRows++
	}

	done := time.Now()
	batch.ProcessedRows = batch.SuccessfulRows + batch.FailedRows + batch.SkippedRows
	batch.Status = entity.BatchCompleted
	batch.CompletedAt = &done
	if err := uc.BatchRepo.Update(ctx, batch); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	log.Printf("✅ Batch %s enqueued: %d total, %d queued, %d skipped, %d failed",
		batch.ID, batch.TotalRows, batch.SuccessfulRows, batch.SkippedRows, batch.FailedRows)
	return batch, nil
}

// BatchStatus returns the batch with its recipients for progress polling.
func (uc *ImportRetainerBatchUseCase) BatchStatus(ctx context.Context, batchID string) (*entity.RetainerBatch, []*entity.RetainerRecipient, error) {
	batch, err := uc.BatchRepo.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, entity.ErrBatchNotFound) {
			return nil, nil, NewDomainError("BATCH_NOT_FOUND", "batch not found")
		}
		return nil, nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	recipients, err := uc.RecipientRepo.FindByBatchID(ctx, batchID)
	if err != nil {
		return nil, nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	return batch, recipients, nil
}

// RequestResend queues a resend_email job for a recipient whose submission is
// still waiting on a signature.
func (uc *ImportRetainerBatchUseCase) RequestResend(ctx context.Context, recipientID string) error {
	recipient, err := uc.RecipientRepo.FindByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, entity.ErrRecipientNotFound) {
			return NewDomainError("RECIPIENT_NOT_FOUND", "recipient not found")
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if recipient.Status != entity.RecipientSubmitted {
		return NewDomainError("RECIPIENT_NOT_RESENDABLE", fmt.Sprintf("recipient is %s, resend needs submitted", recipient.Status))
	}

	batch, err := uc.BatchRepo.FindByID(ctx, recipient.BatchID)
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	err = uc.Producer.PublishRetainerJob(ctx, queue.RetainerJobPayload{
		Kind:        queue.JobResendEmail,
		RecipientID: recipient.ID,
		BatchID:     batch.ID,
		LawFirmID:   batch.LawFirmID,
	})
	if err != nil {
		return &TechnicalError{Code: "QUEUE_ERROR", Message: fmt.Sprintf("failed to publish resend job: %s", err)}
	}
	return nil
}
