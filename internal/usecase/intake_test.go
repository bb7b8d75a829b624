package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/legal-intake/internal/entity"
)

func TestRegisterApplicantSuccess(t *testing.T) {
	ctx := context.Background()

	mockApplicantRepo := new(MockApplicantRepository)
	mockFirmRepo := new(MockLawFirmRepository)

	mockFirmRepo.On("FindBySubdomain", ctx, "coastal").Return(testFirm(), nil)
	mockApplicantRepo.On("Create", ctx, mock.MatchedBy(func(a *entity.Applicant) bool {
		return a.LawFirmID == "firm-1" && a.Email == "jane@example.com"
	})).Return(nil)

	uc := NewRegisterApplicantUseCase(mockApplicantRepo, mockFirmRepo)

	output, err := uc.Execute(ctx, RegisterApplicantInput{
		Subdomain: "coastal",
		FirstName: "Jane",
		LastName:  "Roe",
		Email:     "Jane@Example.com",
		CellPhone: "(555) 123-4567",
		ZipCode:   "33101",
		GamerDOB:  "2012-04-01",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.ApplicantID)
	assert.True(t, output.RequiresParentalSignature)
	assert.True(t, output.FloridaDisclosureRequired)
}

func TestRegisterApplicantValidation(t *testing.T) {
	uc := NewRegisterApplicantUseCase(new(MockApplicantRepository), new(MockLawFirmRepository))

	_, err := uc.Execute(context.Background(), RegisterApplicantInput{
		Subdomain: "coastal",
		FirstName: "Jane",
		// last name, email, phone, zip all missing
	})

	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestRegisterApplicantMissingDOBIsMinor(t *testing.T) {
	ctx := context.Background()

	mockApplicantRepo := new(MockApplicantRepository)
	mockFirmRepo := new(MockLawFirmRepository)

	mockFirmRepo.On("FindByID", ctx, "firm-1").Return(testFirm(), nil)
	mockApplicantRepo.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewRegisterApplicantUseCase(mockApplicantRepo, mockFirmRepo)

	output, err := uc.Execute(ctx, RegisterApplicantInput{
		LawFirmID: "firm-1",
		FirstName: "Jane",
		LastName:  "Roe",
		Email:     "jane@example.com",
		CellPhone: "5551234567",
		ZipCode:   "10001",
	})

	assert.NoError(t, err)
	assert.True(t, output.RequiresParentalSignature)
}

func TestSubmitIntakeDuplicateReturnsExistingForm(t *testing.T) {
	ctx := context.Background()

	applicant := testApplicant(nil, "10001")
	existing := entity.NewIntakeForm(applicant.ID, applicant.LawFirmID)

	mockIntakeRepo := new(MockIntakeFormRepository)
	mockApplicantRepo := new(MockApplicantRepository)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockIntakeRepo.On("FindByApplicantID", ctx, "app-1").Return(existing, nil)

	uc := NewSubmitIntakeUseCase(mockIntakeRepo, mockApplicantRepo)

	output, err := uc.Execute(ctx, SubmitIntakeInput{ApplicantID: "app-1"})

	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INTAKE_ALREADY_SUBMITTED", domainErr.Code)
	// The existing form rides along so the frontend can route forward.
	assert.Equal(t, existing.ID, output.IntakeFormID)
	mockIntakeRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestSubmitIntakeSuccess(t *testing.T) {
	ctx := context.Background()

	applicant := testApplicant(nil, "10001")

	mockIntakeRepo := new(MockIntakeFormRepository)
	mockApplicantRepo := new(MockApplicantRepository)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockIntakeRepo.On("FindByApplicantID", ctx, "app-1").Return(nil, entity.ErrIntakeNotFound)
	mockIntakeRepo.On("Create", ctx, mock.MatchedBy(func(f *entity.IntakeForm) bool {
		return f.ApplicantID == "app-1" && f.ClientIP == "203.0.113.7"
	})).Return(nil)

	uc := NewSubmitIntakeUseCase(mockIntakeRepo, mockApplicantRepo)

	output, err := uc.Execute(ctx, SubmitIntakeInput{
		ApplicantID:       "app-1",
		GamerFirstName:    "Timmy",
		GamerLastName:     "Roe",
		GuardianFirstName: "Jane",
		GuardianLastName:  "Roe",
		IncidentSummary:   "lost account funds",
		ClientIP:          "203.0.113.7, 10.0.0.1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.IntakeFormID)
}

func TestIntakeStatus(t *testing.T) {
	ctx := context.Background()

	mockIntakeRepo := new(MockIntakeFormRepository)
	uc := NewSubmitIntakeUseCase(mockIntakeRepo, new(MockApplicantRepository))

	mockIntakeRepo.On("FindByApplicantID", ctx, "app-1").Return(nil, entity.ErrIntakeNotFound)
	status, err := uc.IntakeStatus(ctx, "app-1")
	assert.NoError(t, err)
	assert.False(t, status.AlreadySubmitted)

	existing := entity.NewIntakeForm("app-2", "firm-1")
	mockIntakeRepo.On("FindByApplicantID", ctx, "app-2").Return(existing, nil)
	status, err = uc.IntakeStatus(ctx, "app-2")
	assert.NoError(t, err)
	assert.True(t, status.AlreadySubmitted)
	assert.Equal(t, existing.ID, status.IntakeFormID)
}
