package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrIntakeNotFound      = errors.New("intake form not found")
	ErrIntakeAlreadyExists = errors.New("intake form already submitted")
)

// IntakeForm is the questionnaire a guardian fills in for a gamer claim.
// One per applicant; the applicant record is frozen once this exists.
type IntakeForm struct {
	ID                string     `json:"id"`
	ApplicantID       string     `json:"applicant_id"`
	LawFirmID         string     `json:"law_firm_id"`
	GamerFirstName    string     `json:"gamer_first_name"`
	GamerLastName     string     `json:"gamer_last_name"`
	GuardianFirstName string     `json:"guardian_first_name"`
	GuardianLastName  string     `json:"guardian_last_name"`
	CustodyType       string     `json:"custody_type,omitempty"`
	Gamertags         []string   `json:"gamertags,omitempty"`
	IncidentSummary   string     `json:"incident_summary"`
	MedicalSummary    string     `json:"medical_summary,omitempty"`
	EconomicLoss      string     `json:"economic_loss,omitempty"`
	FirstContact      *time.Time `json:"first_contact,omitempty"`
	LastContact       *time.Time `json:"last_contact,omitempty"`
	AdditionalInfo    string     `json:"additional_info,omitempty"`
	ClientIP          string     `json:"client_ip,omitempty"`
	SubmittedAt       time.Time  `json:"submitted_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

func NewIntakeForm(applicantID, lawFirmID string) *IntakeForm {
	now := time.Now()
	return &IntakeForm{
		ID:          uuid.New().String(),
		ApplicantID: applicantID,
		LawFirmID:   lawFirmID,
		SubmittedAt: now,
		CreatedAt:   now,
	}
}

type IntakeFormRepositoryInterface interface {
	Create(ctx context.Context, form *IntakeForm) error
	FindByApplicantID(ctx context.Context, applicantID string) (*IntakeForm, error)
}
