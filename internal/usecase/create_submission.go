package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
	"github.com/xavierca1/legal-intake/internal/infra/mail"
)

// CreateDocumentSubmissionUseCase creates the signing request(s) for an
// applicant. Florida residents get the disclosure document first and the
// retainer right behind it; everyone else gets the retainer alone. The
// retainer template is resolved to minor/adult by the classifier.
type CreateDocumentSubmissionUseCase struct {
	ApplicantRepo     entity.ApplicantRepositoryInterface
	LawFirmRepo       entity.LawFirmRepositoryInterface
	TemplateRepo      entity.DocumentTemplateRepositoryInterface
	EmailTemplateRepo entity.EmailTemplateRepositoryInterface
	SubmissionRepo    entity.DocumentSubmissionRepositoryInterface
	Gateway           SignatureGateway
	AppBaseURL        string
}

func NewCreateDocumentSubmissionUseCase(
	applicantRepo entity.ApplicantRepositoryInterface,
	lawFirmRepo entity.LawFirmRepositoryInterface,
	templateRepo entity.DocumentTemplateRepositoryInterface,
	emailTemplateRepo entity.EmailTemplateRepositoryInterface,
	submissionRepo entity.DocumentSubmissionRepositoryInterface,
	gateway SignatureGateway,
	appBaseURL string,
) *CreateDocumentSubmissionUseCase {
	return &CreateDocumentSubmissionUseCase{
		ApplicantRepo:     applicantRepo,
		LawFirmRepo:       lawFirmRepo,
		TemplateRepo:      templateRepo,
		EmailTemplateRepo: emailTemplateRepo,
		SubmissionRepo:    submissionRepo,
		Gateway:           gateway,
		AppBaseURL:        appBaseURL,
	}
}

func (uc *CreateDocumentSubmissionUseCase) Execute(ctx context.Context, input CreateDocumentsInput) (*CreateDocumentsOutput, error) {
	if input.ApplicantID == "" {
		return nil, NewDomainError("VALIDATION_ERROR", "applicant_id is required")
	}

	applicant, err := uc.ApplicantRepo.FindByID(ctx, input.ApplicantID)
	if err != nil {
		if errors.Is(err, entity.ErrApplicantNotFound) {
			return nil, NewDomainError("APPLICANT_NOT_FOUND", "applicant not found")
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	firm, err := uc.LawFirmRepo.FindByID(ctx, applicant.LawFirmID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	elig := Classify(applicant.GamerDOB, applicant.ZipCode)

	templateType := input.TemplateType
	if templateType == "" || templateType == entity.TemplateRetainerAgreement {
		templateType = elig.RetainerTemplate
	}

	emailTemplateType := input.EmailTemplateType
	if emailTemplateType == "" {
		emailTemplateType = entity.EmailEligibleNoParent
		if elig.RequiresParentalSignature {
			emailTemplateType = entity.EmailEligibleWithParent
		}
	}

	// Florida residents sign the disclosure before any retainer. The frontend
	// gets the disclosure's signing URL; the retainer is created up front and
	// surfaced by the status endpoint once the disclosure completes.
	if elig.RequiresFloridaDisclosure && isRetainerTemplate(templateType) {
		disclosure, err := uc.createOne(ctx, applicant, firm, entity.TemplateFloridaDisclosure, entity.EmailFloridaDisclosure)
		if err != nil {
			return nil, err
		}
		retainer, err := uc.createOne(ctx, applicant, firm, templateType, emailTemplateType)
		if err != nil {
			log.Printf("❌ Florida workflow: disclosure %s created but retainer failed: %s", disclosure.ID, err)
			return nil, err
		}

		log.Printf("✅ Florida workflow for applicant %s: disclosure %s + retainer %s", applicant.ID, disclosure.ID, retainer.ID)
		return &CreateDocumentsOutput{
			SubmissionID:              disclosure.ID,
			SubmissionURL:             uc.Gateway.SigningURL(disclosure.Slug),
			ExternalID:                disclosure.ExternalID,
			TemplateType:              entity.TemplateFloridaDisclosure,
			Status:                    string(disclosure.Status),
			Workflow:                  "florida_two_step",
			DocumentsCreated:          2,
			FloridaDisclosureRequired: true,
		}, nil
	}

	sub, err := uc.createOne(ctx, applicant, firm, templateType, emailTemplateType)
	if err != nil {
		return nil, err
	}

	return &CreateDocumentsOutput{
		SubmissionID:              sub.ID,
		SubmissionURL:             uc.Gateway.SigningURL(sub.Slug),
		ExternalID:                sub.ExternalID,
		TemplateType:              templateType,
		Status:                    string(sub.Status),
		Workflow:                  "single",
		DocumentsCreated:          1,
		FloridaDisclosureRequired: false,
	}, nil
}

func (uc *CreateDocumentSubmissionUseCase) createOne(
	ctx context.Context,
	applicant *entity.Applicant,
	firm *entity.LawFirm,
	templateType, emailTemplateType string,
) (*entity.DocumentSubmission, error) {
	docTemplate, err := uc.TemplateRepo.FindForLawFirm(ctx, templateType, firm.ID)
	if err != nil {
		if errors.Is(err, entity.ErrTemplateNotFound) {
			return nil, NewDomainError("TEMPLATE_NOT_FOUND", fmt.Sprintf("no document template named %q", templateType))
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	// Invitation message: stored template if the firm has one, otherwise the
	// provider's default email.
	var message *nextkeysign.Message
	if emailTmpl, err := uc.EmailTemplateRepo.FindForLawFirm(ctx, emailTemplateType, firm.ID); err == nil {
		data := mail.Personalization{
			Name:         applicant.FullName(),
			LawFirmName:  firm.Name,
			LawFirmEmail: firm.ContactEmail,
			LawFirmPhone: firm.PhoneNumber,
		}
		message = &nextkeysign.Message{
			Subject: mail.Personalize(emailTmpl.Subject, data),
			Body:    mail.Personalize(emailTmpl.Body, data),
		}
	} else if !errors.Is(err, entity.ErrEmailTemplateNotFound) {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	externalID := fmt.Sprintf("roblox_%s_%s_%s", templateType, applicant.ID, time.Now().Format("20060102_150405"))

	out, err := uc.Gateway.CreateSubmission(ctx, nextkeysign.CreateSubmissionInput{
		TemplateID: docTemplate.NextKeySignTemplateID,
		Name:       applicant.FullName(),
		Email:      applicant.Email,
		Role:       "First Party",
		ExternalID: externalID,
		Values: map[string]string{
			"Name":         applicant.FullName(),
			"Current Date": time.Now().Format("January 2, 2006"),
		},
		SendEmail:            true,
		Message:              message,
		CompletedRedirectURL: uc.AppBaseURL + "/api/documents/status?applicant_id=" + applicant.ID,
		DeclinedRedirectURL:  uc.AppBaseURL + "/?signed=declined",
	})
	if err != nil {
		return nil, err
	}

	sub := entity.NewDocumentSubmission(firm.ID, docTemplate.ID, templateType, out.SubmissionID, out.SubmitterID, out.Slug, externalID)
	sub.ApplicantID = &applicant.ID

	if err := uc.SubmissionRepo.Create(ctx, sub); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: fmt.Sprintf("failed to store submission: %s", err)}
	}

	log.Printf("📄 Submission %s (%s) created for applicant %s", sub.ID, templateType, applicant.ID)
	return sub, nil
}

func isRetainerTemplate(name string) bool {
	switch name {
	case entity.TemplateRetainerAgreement, entity.TemplateRetainerMinor, entity.TemplateRetainerAdult:
		return true
	}
	return false
}

// DocumentStatusUseCase reports signing progress for an applicant: which
// documents exist, whether everything is signed, and which URL to sign next.
type DocumentStatusUseCase struct {
	ApplicantRepo  entity.ApplicantRepositoryInterface
	SubmissionRepo entity.DocumentSubmissionRepositoryInterface
	Gateway        SignatureGateway
}

func NewDocumentStatusUseCase(
	applicantRepo entity.ApplicantRepositoryInterface,
	submissionRepo entity.DocumentSubmissionRepositoryInterface,
	gateway SignatureGateway,
) *DocumentStatusUseCase {
	return &DocumentStatusUseCase{
		ApplicantRepo:  applicantRepo,
		SubmissionRepo: submissionRepo,
		Gateway:        gateway,
	}
}

func (uc *DocumentStatusUseCase) Execute(ctx context.Context, applicantID string) (*DocumentStatusOutput, error) {
	if applicantID == "" {
		return nil, NewDomainError("VALIDATION_ERROR", "applicant_id is required")
	}

	applicant, err := uc.ApplicantRepo.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, entity.ErrApplicantNotFound) {
			return nil, NewDomainError("APPLICANT_NOT_FOUND", "applicant not found")
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	subs, err := uc.SubmissionRepo.FindByApplicantID(ctx, applicant.ID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	elig := Classify(applicant.GamerDOB, applicant.ZipCode)

	out := &DocumentStatusOutput{
		ApplicantID:               applicant.ID,
		FloridaDisclosureRequired: elig.RequiresFloridaDisclosure,
		Documents:                 make([]DocumentStatusItem, 0, len(subs)),
	}

	allCompleted := len(subs) > 0
	for _, sub := range subs {
		item := DocumentStatusItem{
			SubmissionID: sub.ID,
			TemplateType: sub.TemplateName,
			Status:       string(sub.Status),
		}
		if sub.Status != entity.StatusCompleted {
			allCompleted = false
			item.SigningURL = uc.Gateway.SigningURL(sub.Slug)
		}
		out.Documents = append(out.Documents, item)
	}
	out.AllCompleted = allCompleted

	// Disclosure first, then the retainer. The next pending document in that
	// order carries the signing URL the frontend should show.
	if !allCompleted {
		out.NextSigningURL = uc.nextSigningURL(subs)
	}
	return out, nil
}

func (uc *DocumentStatusUseCase) nextSigningURL(subs []*entity.DocumentSubmission) string {
	for _, sub := range subs {
		if sub.TemplateName == entity.TemplateFloridaDisclosure && sub.Status != entity.StatusCompleted && !sub.Status.IsTerminal() {
			return uc.Gateway.SigningURL(sub.Slug)
		}
	}
	for _, sub := range subs {
		if sub.TemplateName != entity.TemplateFloridaDisclosure && sub.Status != entity.StatusCompleted && !sub.Status.IsTerminal() {
			return uc.Gateway.SigningURL(sub.Slug)
		}
	}
	return ""
}
