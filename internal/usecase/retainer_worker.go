package usecase

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
	"github.com/xavierca1/legal-intake/internal/infra/mail"
	"github.com/xavierca1/legal-intake/internal/infra/queue"
)

// RetainerSubmissionUseCase runs the background side of a retainer campaign:
// create the provider submission with the provider's own email suppressed,
// then send the firm-branded invitation over the firm's SMTP account. It is
// the queue worker's processor.
type RetainerSubmissionUseCase struct {
	RecipientRepo     entity.RetainerRecipientRepositoryInterface
	BatchRepo         entity.RetainerBatchRepositoryInterface
	LawFirmRepo       entity.LawFirmRepositoryInterface
	TemplateRepo      entity.DocumentTemplateRepositoryInterface
	EmailTemplateRepo entity.EmailTemplateRepositoryInterface
	SubmissionRepo    entity.DocumentSubmissionRepositoryInterface
	EmailLogRepo      entity.EmailLogRepositoryInterface
	Gateway           SignatureGateway
	Mailer            MailService
}

var _ queue.RetainerProcessor = (*RetainerSubmissionUseCase)(nil)

func NewRetainerSubmissionUseCase(
	recipientRepo entity.RetainerRecipientRepositoryInterface,
	batchRepo entity.RetainerBatchRepositoryInterface,
	lawFirmRepo entity.LawFirmRepositoryInterface,
	templateRepo entity.DocumentTemplateRepositoryInterface,
	emailTemplateRepo entity.EmailTemplateRepositoryInterface,
	submissionRepo entity.DocumentSubmissionRepositoryInterface,
	emailLogRepo entity.EmailLogRepositoryInterface,
	gateway SignatureGateway,
	mailer MailService,
) *RetainerSubmissionUseCase {
	return &RetainerSubmissionUseCase{
		RecipientRepo:     recipientRepo,
		BatchRepo:         batchRepo,
		LawFirmRepo:       lawFirmRepo,
		TemplateRepo:      templateRepo,
		EmailTemplateRepo: emailTemplateRepo,
		SubmissionRepo:    submissionRepo,
		EmailLogRepo:      emailLogRepo,
		Gateway:           gateway,
		Mailer:            mailer,
	}
}

// ProcessRecipient handles one create_submission job. Returned errors make the
// worker nack (one requeue, then DLQ); the recipient row records the failure
// either way.
func (uc *RetainerSubmissionUseCase) ProcessRecipient(ctx context.Context, payload queue.RetainerJobPayload) error {
	recipient, err := uc.RecipientRepo.FindByID(ctx, payload.RecipientID)
	if err != nil {
		return fmt.Errorf("recipient %s: %w", payload.RecipientID, err)
	}
	if recipient.Status == entity.RecipientSubmitted || recipient.Status == entity.RecipientCompleted {
		log.Printf("⚠️ Recipient %s already %s, skipping duplicate job", recipient.ID, recipient.Status)
		return nil
	}

	batch, err := uc.BatchRepo.FindByID(ctx, recipient.BatchID)
	if err != nil {
		return fmt.Errorf("batch %s: %w", recipient.BatchID, err)
	}
	firm, err := uc.LawFirmRepo.FindByID(ctx, batch.LawFirmID)
	if err != nil {
		return fmt.Errorf("law firm %s: %w", batch.LawFirmID, err)
	}
	docTemplate, err := uc.TemplateRepo.FindByID(ctx, batch.DocumentTemplateID)
	if err != nil {
		return fmt.Errorf("document template %s: %w", batch.DocumentTemplateID, err)
	}

	externalID := fmt.Sprintf("retainer_%s_%s", recipient.ID, time.Now().Format("20060102_150405"))

	out, err := uc.Gateway.CreateSubmission(ctx, nextkeysign.CreateSubmissionInput{
		TemplateID: docTemplate.NextKeySignTemplateID,
		Name:       recipient.Name,
		Email:      recipient.Email,
		Role:       "Client",
		ExternalID: externalID,
		Values: map[string]string{
			"Name":         recipient.Name,
			"Injured Name": recipient.InjuredName(),
			"Current Date": time.Now().Format("January 2, 2006"),
		},
		SendEmail: false, // the firm sends its own invitation below
	})
	if err != nil {
		uc.markFailed(ctx, recipient, fmt.Sprintf("provider submission failed: %s", err))
		return fmt.Errorf("create submission for recipient %s: %w", recipient.ID, err)
	}

	sub := entity.NewDocumentSubmission(firm.ID, docTemplate.ID, docTemplate.Name, out.SubmissionID, out.SubmitterID, out.Slug, externalID)
	sub.RecipientID = &recipient.ID
	if err := uc.SubmissionRepo.Create(ctx, sub); err != nil {
		uc.markFailed(ctx, recipient, fmt.Sprintf("submission insert failed: %s", err))
		return fmt.Errorf("store submission for recipient %s: %w", recipient.ID, err)
	}

	if err := uc.sendInvitation(ctx, firm, batch, recipient, sub); err != nil {
		uc.markFailed(ctx, recipient, err.Error())
		return fmt.Errorf("send invitation for recipient %s: %w", recipient.ID, err)
	}

	now := time.Now()
	recipient.Status = entity.RecipientSubmitted
	recipient.ErrorMessage = ""
	recipient.LastProcessedAt = &now
	if err := uc.RecipientRepo.Update(ctx, recipient); err != nil {
		return fmt.Errorf("update recipient %s: %w", recipient.ID, err)
	}

	log.Printf("✅ Recipient %s: submission %s created and invitation sent", recipient.ID, sub.ID)
	return nil
}

// ResendEmail handles one resend_email job for an existing submission.
func (uc *RetainerSubmissionUseCase) ResendEmail(ctx context.Context, payload queue.RetainerJobPayload) error {
	recipient, err := uc.RecipientRepo.FindByID(ctx, payload.RecipientID)
	if err != nil {
		return fmt.Errorf("recipient %s: %w", payload.RecipientID, err)
	}

	sub, err := uc.SubmissionRepo.FindByRecipientID(ctx, recipient.ID)
	if err != nil {
		return fmt.Errorf("submission for recipient %s: %w", recipient.ID, err)
	}
	if sub.Status == entity.StatusCompleted || sub.Status.IsTerminal() {
		log.Printf("⚠️ Recipient %s submission is %s, not resending", recipient.ID, sub.Status)
		return nil
	}

	batch, err := uc.BatchRepo.FindByID(ctx, recipient.BatchID)
	if err != nil {
		return fmt.Errorf("batch %s: %w", recipient.BatchID, err)
	}
	firm, err := uc.LawFirmRepo.FindByID(ctx, batch.LawFirmID)
	if err != nil {
		return fmt.Errorf("law firm %s: %w", batch.LawFirmID, err)
	}

	if err := uc.sendInvitation(ctx, firm, batch, recipient, sub); err != nil {
		return fmt.Errorf("resend invitation for recipient %s: %w", recipient.ID, err)
	}

	now := time.Now()
	recipient.LastProcessedAt = &now
	if err := uc.RecipientRepo.Update(ctx, recipient); err != nil {
		return fmt.Errorf("update recipient %s: %w", recipient.ID, err)
	}

	log.Printf("📧 Recipient %s: invitation resent", recipient.ID)
	return nil
}

func (uc *RetainerSubmissionUseCase) sendInvitation(
	ctx context.Context,
	firm *entity.LawFirm,
	batch *entity.RetainerBatch,
	recipient *entity.RetainerRecipient,
	sub *entity.DocumentSubmission,
) error {
	emailTmpl, err := uc.EmailTemplateRepo.FindByID(ctx, batch.EmailTemplateID)
	if err != nil {
		return fmt.Errorf("email template %s: %w", batch.EmailTemplateID, err)
	}

	age := ""
	if recipient.Age != nil {
		age = strconv.Itoa(*recipient.Age)
	}
	data := mail.Personalization{
		Name:             recipient.Name,
		FirstNameInjured: recipient.FirstNameInjured,
		LastNameInjured:  recipient.LastNameInjured,
		State:            recipient.State,
		Age:              age,
		ExternalID:       recipient.ExternalID,
		SigningURL:       uc.Gateway.SigningURL(sub.Slug),
		LawFirmName:      firm.Name,
		LawFirmEmail:     firm.ContactEmail,
		LawFirmPhone:     firm.PhoneNumber,
	}

	emailLog := entity.NewEmailLog(
		firm.ID,
		firm.FromAddress(),
		recipient.Email,
		mail.Personalize(emailTmpl.Subject, data),
		mail.Personalize(emailTmpl.Body, data),
		&emailTmpl.ID,
	)
	if err := uc.EmailLogRepo.Create(ctx, emailLog); err != nil {
		log.Printf("⚠️ Email log insert failed for recipient %s: %s", recipient.ID, err)
	}

	if sendErr := uc.Mailer.SendTemplated(firm, recipient.Email, emailTmpl, data); sendErr != nil {
		if err := uc.EmailLogRepo.UpdateStatus(ctx, emailLog.ID, entity.EmailFailed, sendErr.Error()); err != nil {
			log.Printf("⚠️ Email log %s not updated: %s", emailLog.ID, err)
		}
		return sendErr
	}

	if err := uc.EmailLogRepo.UpdateStatus(ctx, emailLog.ID, entity.EmailSent, ""); err != nil {
		log.Printf("⚠️ Email log %s not updated: %s", emailLog.ID, err)
	}

	// The provider never emails for campaign submissions, so the sent marker
	// comes from our own delivery. Completed/terminal rows stay untouched.
	if sub.Status == entity.StatusPending {
		if err := uc.SubmissionRepo.UpdateStatus(ctx, sub.ID, entity.StatusSent); err != nil {
			log.Printf("⚠️ Submission %s not marked sent: %s", sub.ID, err)
		}
	}
	return nil
}

func (uc *RetainerSubmissionUseCase) markFailed(ctx context.Context, recipient *entity.RetainerRecipient, message string) {
	now := time.Now()
	recipient.Status = entity.RecipientFailed
	recipient.ErrorMessage = message
	recipient.RetryCount++
	recipient.LastProcessedAt = &now
	if err := uc.RecipientRepo.Update(ctx, recipient); err != nil {
		log.Printf("❌ Recipient %s could not be marked failed: %s", recipient.ID, err)
	}
}
