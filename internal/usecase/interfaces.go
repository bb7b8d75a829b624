package usecase

import (
	"context"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
	"github.com/xavierca1/legal-intake/internal/infra/mail"
	"github.com/xavierca1/legal-intake/internal/infra/queue"
)

// SignatureGateway is the outbound contract to the e-signature provider.
type SignatureGateway interface {
	CreateSubmission(ctx context.Context, input nextkeysign.CreateSubmissionInput) (*nextkeysign.CreateSubmissionOutput, error)
	SigningURL(slug string) string
}

// MailService sends firm-branded templated email. A nil return means sent.
type MailService interface {
	SendTemplated(firm *entity.LawFirm, to string, tmpl *entity.EmailTemplate, data mail.Personalization) *mail.SendError
}

type QueueProducerInterface interface {
	PublishRetainerJob(ctx context.Context, payload queue.RetainerJobPayload) error
}
