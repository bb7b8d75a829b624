package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
	"github.com/xavierca1/legal-intake/internal/infra/mail"
	"github.com/xavierca1/legal-intake/internal/infra/queue"
)

// MockLawFirmRepository
type MockLawFirmRepository struct {
	mock.Mock
}

func (m *MockLawFirmRepository) Create(ctx context.Context, firm *entity.LawFirm) error {
	args := m.Called(ctx, firm)
	return args.Error(0)
}

func (m *MockLawFirmRepository) FindByID(ctx context.Context, id string) (*entity.LawFirm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LawFirm), args.Error(1)
}

func (m *MockLawFirmRepository) FindBySubdomain(ctx context.Context, subdomain string) (*entity.LawFirm, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LawFirm), args.Error(1)
}

// MockApplicantRepository
type MockApplicantRepository struct {
	mock.Mock
}

func (m *MockApplicantRepository) Create(ctx context.Context, a *entity.Applicant) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockApplicantRepository) FindByID(ctx context.Context, id string) (*entity.Applicant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Applicant), args.Error(1)
}

// MockIntakeFormRepository
type MockIntakeFormRepository struct {
	mock.Mock
}

func (m *MockIntakeFormRepository) Create(ctx context.Context, form *entity.IntakeForm) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockIntakeFormRepository) FindByApplicantID(ctx context.Context, applicantID string) (*entity.IntakeForm, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IntakeForm), args.Error(1)
}

// MockDocumentTemplateRepository
type MockDocumentTemplateRepository struct {
	mock.Mock
}

func (m *MockDocumentTemplateRepository) Create(ctx context.Context, t *entity.DocumentTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockDocumentTemplateRepository) FindByID(ctx context.Context, id string) (*entity.DocumentTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentTemplate), args.Error(1)
}

func (m *MockDocumentTemplateRepository) FindForLawFirm(ctx context.Context, name, lawFirmID string) (*entity.DocumentTemplate, error) {
	args := m.Called(ctx, name, lawFirmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentTemplate), args.Error(1)
}

// MockEmailTemplateRepository
type MockEmailTemplateRepository struct {
	mock.Mock
}

func (m *MockEmailTemplateRepository) Create(ctx context.Context, t *entity.EmailTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockEmailTemplateRepository) FindByID(ctx context.Context, id string) (*entity.EmailTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateRepository) FindForLawFirm(ctx context.Context, name, lawFirmID string) (*entity.EmailTemplate, error) {
	args := m.Called(ctx, name, lawFirmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailTemplate), args.Error(1)
}

// MockEmailLogRepository
type MockEmailLogRepository struct {
	mock.Mock
}

func (m *MockEmailLogRepository) Create(ctx context.Context, l *entity.EmailLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockEmailLogRepository) UpdateStatus(ctx context.Context, id string, status entity.EmailStatus, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

// MockSubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *entity.DocumentSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByProviderID(ctx context.Context, providerID string) (*entity.DocumentSubmission, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByApplicantID(ctx context.Context, applicantID string) ([]*entity.DocumentSubmission, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DocumentSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByRecipientID(ctx context.Context, recipientID string) (*entity.DocumentSubmission, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// Transition runs fn against the stubbed submission, mirroring the row-locked
// read-modify-write of the real repository.
func (m *MockSubmissionRepository) Transition(ctx context.Context, providerID string, fn func(*entity.DocumentSubmission) bool) (*entity.DocumentSubmission, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	sub := args.Get(0).(*entity.DocumentSubmission)
	fn(sub)
	return sub, args.Error(1)
}

// MockWebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Create(ctx context.Context, event *entity.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) FindBySubmissionID(ctx context.Context, submissionID string) ([]*entity.WebhookEvent, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.WebhookEvent), args.Error(1)
}

// MockRetainerBatchRepository
type MockRetainerBatchRepository struct {
	mock.Mock
}

func (m *MockRetainerBatchRepository) Create(ctx context.Context, b *entity.RetainerBatch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRetainerBatchRepository) FindByID(ctx context.Context, id string) (*entity.RetainerBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RetainerBatch), args.Error(1)
}

func (m *MockRetainerBatchRepository) Update(ctx context.Context, b *entity.RetainerBatch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockRetainerRecipientRepository
type MockRetainerRecipientRepository struct {
	mock.Mock
}

func (m *MockRetainerRecipientRepository) Create(ctx context.Context, r *entity.RetainerRecipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRetainerRecipientRepository) FindByID(ctx context.Context, id string) (*entity.RetainerRecipient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RetainerRecipient), args.Error(1)
}

func (m *MockRetainerRecipientRepository) FindByBatchID(ctx context.Context, batchID string) ([]*entity.RetainerRecipient, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.RetainerRecipient), args.Error(1)
}

func (m *MockRetainerRecipientRepository) Update(ctx context.Context, r *entity.RetainerRecipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockSignatureGateway
type MockSignatureGateway struct {
	mock.Mock
}

func (m *MockSignatureGateway) CreateSubmission(ctx context.Context, input nextkeysign.CreateSubmissionInput) (*nextkeysign.CreateSubmissionOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nextkeysign.CreateSubmissionOutput), args.Error(1)
}

func (m *MockSignatureGateway) SigningURL(slug string) string {
	args := m.Called(slug)
	return args.String(0)
}

// MockMailService
type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendTemplated(firm *entity.LawFirm, to string, tmpl *entity.EmailTemplate, data mail.Personalization) *mail.SendError {
	args := m.Called(firm, to, tmpl, data)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*mail.SendError)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishRetainerJob(ctx context.Context, payload queue.RetainerJobPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
