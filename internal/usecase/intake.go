package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
)

// RegisterApplicantUseCase creates the applicant record that anchors the rest
// of the workflow (intake form, signatures, emails).
type RegisterApplicantUseCase struct {
	ApplicantRepo entity.ApplicantRepositoryInterface
	LawFirmRepo   entity.LawFirmRepositoryInterface
}

func NewRegisterApplicantUseCase(
	applicantRepo entity.ApplicantRepositoryInterface,
	lawFirmRepo entity.LawFirmRepositoryInterface,
) *RegisterApplicantUseCase {
	return &RegisterApplicantUseCase{
		ApplicantRepo: applicantRepo,
		LawFirmRepo:   lawFirmRepo,
	}
}

func (uc *RegisterApplicantUseCase) Execute(ctx context.Context, input RegisterApplicantInput) (*RegisterApplicantOutput, error) {
	if errs := ValidateRegisterApplicantInput(input); len(errs) > 0 {
		return nil, NewDomainError("VALIDATION_ERROR", errs[0].Error())
	}

	firm, err := uc.resolveFirm(ctx, input)
	if err != nil {
		return nil, err
	}

	var dob *time.Time
	if input.GamerDOB != "" {
		parsed, err := parseDOB(input.GamerDOB)
		if err != nil {
			return nil, NewDomainError("VALIDATION_ERROR", "gamer_dob: must be a valid date (YYYY-MM-DD)")
		}
		dob = &parsed
	}

	applicant, err := entity.NewApplicant(
		firm.ID,
		strings.TrimSpace(input.FirstName),
		strings.TrimSpace(input.LastName),
		strings.ToLower(strings.TrimSpace(input.Email)),
		input.CellPhone,
		strings.TrimSpace(input.ZipCode),
		dob,
	)
	if err != nil {
		return nil, NewDomainError("VALIDATION_ERROR", err.Error())
	}
	applicant.WorkingWithAttorney = input.WorkingWithAttorney
	applicant.AdditionalNotes = input.AdditionalNotes

	if err := uc.ApplicantRepo.Create(ctx, applicant); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: fmt.Sprintf("failed to create applicant: %s", err)}
	}

	elig := Classify(applicant.GamerDOB, applicant.ZipCode)
	log.Printf("✅ Applicant %s registered for firm %s (parental=%v, florida=%v)",
		applicant.ID, firm.ID, elig.RequiresParentalSignature, elig.RequiresFloridaDisclosure)

	return &RegisterApplicantOutput{
		ApplicantID:               applicant.ID,
		RequiresParentalSignature: elig.RequiresParentalSignature,
		FloridaDisclosureRequired: elig.RequiresFloridaDisclosure,
	}, nil
}

func (uc *RegisterApplicantUseCase) resolveFirm(ctx context.Context, input RegisterApplicantInput) (*entity.LawFirm, error) {
	switch {
	case input.LawFirmID != "":
		firm, err := uc.LawFirmRepo.FindByID(ctx, input.LawFirmID)
		if err != nil {
			if errors.Is(err, entity.ErrLawFirmNotFound) {
				return nil, NewDomainError("LAW_FIRM_NOT_FOUND", "law firm not found")
			}
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}
		return firm, nil
	case input.Subdomain != "":
		firm, err := uc.LawFirmRepo.FindBySubdomain(ctx, input.Subdomain)
		if err != nil {
			if errors.Is(err, entity.ErrLawFirmNotFound) {
				return nil, NewDomainError("LAW_FIRM_NOT_FOUND", "law firm not found")
			}
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}
		return firm, nil
	default:
		return nil, NewDomainError("VALIDATION_ERROR", "law_firm_id or subdomain is required")
	}
}

func parseDOB(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// SubmitIntakeUseCase records the one-per-applicant intake form. A second
// submit is rejected with the existing form's id so the frontend can route to
// the signing step instead.
type SubmitIntakeUseCase struct {
	IntakeRepo    entity.IntakeFormRepositoryInterface
	ApplicantRepo entity.ApplicantRepositoryInterface
}

func NewSubmitIntakeUseCase(
	intakeRepo entity.IntakeFormRepositoryInterface,
	applicantRepo entity.ApplicantRepositoryInterface,
) *SubmitIntakeUseCase {
	return &SubmitIntakeUseCase{
		IntakeRepo:    intakeRepo,
		ApplicantRepo: applicantRepo,
	}
}

func (uc *SubmitIntakeUseCase) Execute(ctx context.Context, input SubmitIntakeInput) (*SubmitIntakeOutput, error) {
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

	if existing, err := uc.IntakeRepo.FindByApplicantID(ctx, applicant.ID); err == nil {
		log.Printf("⚠️ Duplicate intake for applicant %s (form %s)", applicant.ID, existing.ID)
		return &SubmitIntakeOutput{IntakeFormID: existing.ID, ApplicantID: applicant.ID},
			NewDomainError("INTAKE_ALREADY_SUBMITTED", "intake form already submitted")
	} else if !errors.Is(err, entity.ErrIntakeNotFound) {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	form := entity.NewIntakeForm(applicant.ID, applicant.LawFirmID)
	form.GamerFirstName = strings.TrimSpace(input.GamerFirstName)
	form.GamerLastName = strings.TrimSpace(input.GamerLastName)
	form.GuardianFirstName = strings.TrimSpace(input.GuardianFirstName)
	form.GuardianLastName = strings.TrimSpace(input.GuardianLastName)
	form.CustodyType = input.CustodyType
	form.Gamertags = input.Gamertags
	form.IncidentSummary = input.IncidentSummary
	form.MedicalSummary = input.MedicalSummary
	form.EconomicLoss = input.EconomicLoss
	form.AdditionalInfo = input.AdditionalInfo
	form.ClientIP = firstForwardedIP(input.ClientIP)
	if t, err := parseDOB(input.FirstContact); err == nil && input.FirstContact != "" {
		form.FirstContact = &t
	}
	if t, err := parseDOB(input.LastContact); err == nil && input.LastContact != "" {
		form.LastContact = &t
	}

	if err := uc.IntakeRepo.Create(ctx, form); err != nil {
		if errors.Is(err, entity.ErrIntakeAlreadyExists) {
			// Lost the race against a concurrent submit.
			return nil, NewDomainError("INTAKE_ALREADY_SUBMITTED", "intake form already submitted")
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: fmt.Sprintf("failed to create intake form: %s", err)}
	}

	return &SubmitIntakeOutput{IntakeFormID: form.ID, ApplicantID: applicant.ID}, nil
}

// IntakeStatus answers whether the applicant already has an intake form.
func (uc *SubmitIntakeUseCase) IntakeStatus(ctx context.Context, applicantID string) (*IntakeStatusOutput, error) {
	if applicantID == "" {
		return nil, NewDomainError("VALIDATION_ERROR", "applicant_id is required")
	}

	form, err := uc.IntakeRepo.FindByApplicantID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, entity.ErrIntakeNotFound) {
			return &IntakeStatusOutput{AlreadySubmitted: false}, nil
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	return &IntakeStatusOutput{AlreadySubmitted: true, IntakeFormID: form.ID}, nil
}

// firstForwardedIP keeps only the client hop from an X-Forwarded-For chain.
func firstForwardedIP(raw string) string {
	ip, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(ip)
}
