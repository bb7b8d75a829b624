package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTemplateNotFound = errors.New("document template not found")

// Well-known template names used by the intake workflow. Retainer campaigns
// may register custom names on top of these.
const (
	TemplateRetainerMinor      = "retainer_minor"
	TemplateRetainerAdult      = "retainer_adult"
	TemplateFloridaDisclosure  = "florida_disclosure"
	TemplateRetainerAgreement  = "retainer_agreement" // resolved to minor/adult by age
)

// DocumentTemplate maps a signable document type to the NextKeySign template
// that renders it. A nil LawFirmID means the template is global and serves as
// the fallback for every tenant.
type DocumentTemplate struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	DisplayName           string    `json:"display_name"`
	LawFirmID             *string   `json:"law_firm_id,omitempty"`
	NextKeySignTemplateID string    `json:"nextkeysign_template_id"`
	Description           string    `json:"description,omitempty"`
	Active                bool      `json:"active"`
	CreatedAt             time.Time `json:"created_at"`
}

func NewDocumentTemplate(name, displayName, providerTemplateID string, lawFirmID *string) (*DocumentTemplate, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if providerTemplateID == "" {
		return nil, errors.New("nextkeysign_template_id is required")
	}

	return &DocumentTemplate{
		ID:                    uuid.New().String(),
		Name:                  name,
		DisplayName:           displayName,
		LawFirmID:             lawFirmID,
		NextKeySignTemplateID: providerTemplateID,
		Active:                true,
		CreatedAt:             time.Now(),
	}, nil
}

type DocumentTemplateRepositoryInterface interface {
	Create(ctx context.Context, template *DocumentTemplate) error
	FindByID(ctx context.Context, id string) (*DocumentTemplate, error)

	// FindForLawFirm prefers the tenant-scoped template and falls back to the
	// global row with the same name.
	FindForLawFirm(ctx context.Context, name, lawFirmID string) (*DocumentTemplate, error)
}
