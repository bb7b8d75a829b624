package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/usecase"
)

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

func newWebhookTestHandler(subRepo *MockSubmissionRepository, eventRepo *MockWebhookEventRepository) *WebhookHandler {
	return NewWebhookHandler(usecase.NewProcessWebhookUseCase(subRepo, eventRepo, nil))
}

func TestWebhookHandlerAppliesEvent(t *testing.T) {
	sub := entity.NewDocumentSubmission("firm-1", "tmpl-1", entity.TemplateRetainerAdult, "4821", "9001", "slug-abc", "ext-1")

	subRepo := new(MockSubmissionRepository)
	eventRepo := new(MockWebhookEventRepository)
	subRepo.On("FindByProviderID", mock.Anything, "4821").Return(sub, nil)
	subRepo.On("Transition", mock.Anything, "4821").Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	eventRepo.On("MarkProcessed", mock.Anything, mock.Anything).Return(nil)

	handler := newWebhookTestHandler(subRepo, eventRepo)

	body := `{"event_type": "submission.completed", "data": {"id": 4821, "documents": [{"url": "https://sign.example/doc.pdf"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nextkeysign", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"changed":true`)
	assert.Equal(t, entity.StatusCompleted, sub.Status)
}

func TestWebhookHandlerUnmatchedIsAccepted(t *testing.T) {
	subRepo := new(MockSubmissionRepository)
	eventRepo := new(MockWebhookEventRepository)
	subRepo.On("FindByProviderID", mock.Anything, "9999").Return(nil, entity.ErrSubmissionNotFound)

	handler := newWebhookTestHandler(subRepo, eventRepo)

	body := `{"event_type": "submission.completed", "data": {"id": 9999}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nextkeysign", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	// The provider must stop retrying: 200 even though nothing matched.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched":false`)
	eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhookHandlerMissingIDIsBadRequest(t *testing.T) {
	handler := newWebhookTestHandler(new(MockSubmissionRepository), new(MockWebhookEventRepository))

	body := `{"event_type": "form.completed", "data": {"id": 777}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nextkeysign", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_SUBMISSION_ID")
}

func TestWebhookHandlerBadJSON(t *testing.T) {
	handler := newWebhookTestHandler(new(MockSubmissionRepository), new(MockWebhookEventRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nextkeysign", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
