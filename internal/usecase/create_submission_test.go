package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
)

func testFirm() *entity.LawFirm {
	firm, _ := entity.NewLawFirm("Coastal Legal", "coastal", "contact@coastal.example")
	firm.ID = "firm-1"
	return firm
}

func testApplicant(dob *time.Time, zip string) *entity.Applicant {
	a, _ := entity.NewApplicant("firm-1", "Jane", "Roe", "jane@example.com", "5551234567", zip, dob)
	a.ID = "app-1"
	return a
}

func testDocTemplate(name string) *entity.DocumentTemplate {
	tmpl, _ := entity.NewDocumentTemplate(name, name, "nks-"+name, nil)
	return tmpl
}

func TestCreateDocumentsFloridaMinorCreatesBoth(t *testing.T) {
	ctx := context.Background()

	dob := time.Now().AddDate(-16, 0, 0) // 16 years old
	applicant := testApplicant(&dob, "33101")

	mockApplicantRepo := new(MockApplicantRepository)
	mockFirmRepo := new(MockLawFirmRepository)
	mockTemplateRepo := new(MockDocumentTemplateRepository)
	mockEmailTemplateRepo := new(MockEmailTemplateRepository)
	mockSubRepo := new(MockSubmissionRepository)
	mockGateway := new(MockSignatureGateway)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockFirmRepo.On("FindByID", ctx, "firm-1").Return(testFirm(), nil)
	mockTemplateRepo.On("FindForLawFirm", ctx, entity.TemplateFloridaDisclosure, "firm-1").
		Return(testDocTemplate(entity.TemplateFloridaDisclosure), nil)
	mockTemplateRepo.On("FindForLawFirm", ctx, entity.TemplateRetainerMinor, "firm-1").
		Return(testDocTemplate(entity.TemplateRetainerMinor), nil)
	mockEmailTemplateRepo.On("FindForLawFirm", ctx, mock.Anything, "firm-1").
		Return(nil, entity.ErrEmailTemplateNotFound)

	mockGateway.On("CreateSubmission", ctx, mock.MatchedBy(func(in nextkeysign.CreateSubmissionInput) bool {
		return in.TemplateID == "nks-florida_disclosure"
	})).Return(&nextkeysign.CreateSubmissionOutput{SubmissionID: "100", SubmitterID: "200", Slug: "slug-disclosure"}, nil)
	mockGateway.On("CreateSubmission", ctx, mock.MatchedBy(func(in nextkeysign.CreateSubmissionInput) bool {
		return in.TemplateID == "nks-retainer_minor"
	})).Return(&nextkeysign.CreateSubmissionOutput{SubmissionID: "101", SubmitterID: "201", Slug: "slug-retainer"}, nil)
	mockGateway.On("SigningURL", "slug-disclosure").Return("https://sign.example/s/slug-disclosure")

	mockSubRepo.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewCreateDocumentSubmissionUseCase(
		mockApplicantRepo, mockFirmRepo, mockTemplateRepo, mockEmailTemplateRepo,
		mockSubRepo, mockGateway, "https://app.example",
	)

	output, err := uc.Execute(ctx, CreateDocumentsInput{ApplicantID: "app-1"})

	assert.NoError(t, err)
	assert.Equal(t, 2, output.DocumentsCreated)
	assert.True(t, output.FloridaDisclosureRequired)
	assert.Equal(t, entity.TemplateFloridaDisclosure, output.TemplateType)
	// The applicant signs the disclosure first.
	assert.Equal(t, "https://sign.example/s/slug-disclosure", output.SubmissionURL)
	mockSubRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestCreateDocumentsAdultOutsideFlorida(t *testing.T) {
	ctx := context.Background()

	dob := time.Now().AddDate(-30, 0, 0)
	applicant := testApplicant(&dob, "10001")

	mockApplicantRepo := new(MockApplicantRepository)
	mockFirmRepo := new(MockLawFirmRepository)
	mockTemplateRepo := new(MockDocumentTemplateRepository)
	mockEmailTemplateRepo := new(MockEmailTemplateRepository)
	mockSubRepo := new(MockSubmissionRepository)
	mockGateway := new(MockSignatureGateway)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockFirmRepo.On("FindByID", ctx, "firm-1").Return(testFirm(), nil)
	mockTemplateRepo.On("FindForLawFirm", ctx, entity.TemplateRetainerAdult, "firm-1").
		Return(testDocTemplate(entity.TemplateRetainerAdult), nil)
	mockEmailTemplateRepo.On("FindForLawFirm", ctx, entity.EmailEligibleNoParent, "firm-1").
		Return(nil, entity.ErrEmailTemplateNotFound)
	mockGateway.On("CreateSubmission", ctx, mock.Anything).
		Return(&nextkeysign.CreateSubmissionOutput{SubmissionID: "100", SubmitterID: "200", Slug: "slug-1"}, nil)
	mockGateway.On("SigningURL", "slug-1").Return("https://sign.example/s/slug-1")
	mockSubRepo.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewCreateDocumentSubmissionUseCase(
		mockApplicantRepo, mockFirmRepo, mockTemplateRepo, mockEmailTemplateRepo,
		mockSubRepo, mockGateway, "https://app.example",
	)

	output, err := uc.Execute(ctx, CreateDocumentsInput{ApplicantID: "app-1"})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.DocumentsCreated)
	assert.False(t, output.FloridaDisclosureRequired)
	assert.Equal(t, entity.TemplateRetainerAdult, output.TemplateType)
	assert.Contains(t, output.ExternalID, "roblox_retainer_adult_app-1_")
}

func TestCreateDocumentsProviderFailure(t *testing.T) {
	ctx := context.Background()

	dob := time.Now().AddDate(-30, 0, 0)
	applicant := testApplicant(&dob, "10001")

	mockApplicantRepo := new(MockApplicantRepository)
	mockFirmRepo := new(MockLawFirmRepository)
	mockTemplateRepo := new(MockDocumentTemplateRepository)
	mockEmailTemplateRepo := new(MockEmailTemplateRepository)
	mockSubRepo := new(MockSubmissionRepository)
	mockGateway := new(MockSignatureGateway)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockFirmRepo.On("FindByID", ctx, "firm-1").Return(testFirm(), nil)
	mockTemplateRepo.On("FindForLawFirm", ctx, entity.TemplateRetainerAdult, "firm-1").
		Return(testDocTemplate(entity.TemplateRetainerAdult), nil)
	mockEmailTemplateRepo.On("FindForLawFirm", ctx, mock.Anything, "firm-1").
		Return(nil, entity.ErrEmailTemplateNotFound)

	providerErr := &nextkeysign.ProviderError{StatusCode: 502, Body: "bad gateway"}
	mockGateway.On("CreateSubmission", ctx, mock.Anything).Return(nil, providerErr)

	uc := NewCreateDocumentSubmissionUseCase(
		mockApplicantRepo, mockFirmRepo, mockTemplateRepo, mockEmailTemplateRepo,
		mockSubRepo, mockGateway, "https://app.example",
	)

	_, err := uc.Execute(ctx, CreateDocumentsInput{ApplicantID: "app-1"})

	assert.ErrorAs(t, err, &providerErr)
	mockSubRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestDocumentStatusFloridaDisclosureFirst(t *testing.T) {
	ctx := context.Background()

	dob := time.Now().AddDate(-16, 0, 0)
	applicant := testApplicant(&dob, "33101")

	disclosure := entity.NewDocumentSubmission("firm-1", "t1", entity.TemplateFloridaDisclosure, "100", "200", "slug-disclosure", "ext-1")
	retainer := entity.NewDocumentSubmission("firm-1", "t2", entity.TemplateRetainerMinor, "101", "201", "slug-retainer", "ext-2")

	mockApplicantRepo := new(MockApplicantRepository)
	mockSubRepo := new(MockSubmissionRepository)
	mockGateway := new(MockSignatureGateway)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockSubRepo.On("FindByApplicantID", ctx, "app-1").
		Return([]*entity.DocumentSubmission{disclosure, retainer}, nil)
	mockGateway.On("SigningURL", mock.Anything).Return("https://sign.example/s/slug-disclosure")

	uc := NewDocumentStatusUseCase(mockApplicantRepo, mockSubRepo, mockGateway)

	output, err := uc.Execute(ctx, "app-1")

	assert.NoError(t, err)
	assert.False(t, output.AllCompleted)
	assert.True(t, output.FloridaDisclosureRequired)
	assert.Len(t, output.Documents, 2)
	assert.NotEmpty(t, output.NextSigningURL)
	// Signing the disclosure never completes the retainer.
	mockGateway.AssertCalled(t, "SigningURL", "slug-disclosure")
}

func TestDocumentStatusAllCompleted(t *testing.T) {
	ctx := context.Background()

	dob := time.Now().AddDate(-30, 0, 0)
	applicant := testApplicant(&dob, "10001")

	sub := entity.NewDocumentSubmission("firm-1", "t1", entity.TemplateRetainerAdult, "100", "200", "slug-1", "ext-1")
	sub.Status = entity.StatusCompleted

	mockApplicantRepo := new(MockApplicantRepository)
	mockSubRepo := new(MockSubmissionRepository)
	mockGateway := new(MockSignatureGateway)

	mockApplicantRepo.On("FindByID", ctx, "app-1").Return(applicant, nil)
	mockSubRepo.On("FindByApplicantID", ctx, "app-1").Return([]*entity.DocumentSubmission{sub}, nil)

	uc := NewDocumentStatusUseCase(mockApplicantRepo, mockSubRepo, mockGateway)

	output, err := uc.Execute(ctx, "app-1")

	assert.NoError(t, err)
	assert.True(t, output.AllCompleted)
	assert.Empty(t, output.NextSigningURL)
}
