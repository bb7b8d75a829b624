package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrApplicantNotFound  = errors.New("applicant not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Applicant is a prospective client captured from a landing page. The gamer
// date of birth is optional; when absent the eligibility classifier treats the
// gamer as a minor.
type Applicant struct {
	ID                  string     `json:"id"`
	LawFirmID           string     `json:"law_firm_id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	CellPhone           string     `json:"cell_phone"`
	ZipCode             string     `json:"zip_code"`
	GamerDOB            *time.Time `json:"gamer_dob,omitempty"`
	WorkingWithAttorney bool       `json:"working_with_attorney"`
	AdditionalNotes     string     `json:"additional_notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func NewApplicant(lawFirmID, firstName, lastName, email, phone, zipCode string, gamerDOB *time.Time) (*Applicant, error) {
	a := &Applicant{
		ID:        uuid.New().String(),
		LawFirmID: lawFirmID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CellPhone: phone,
		ZipCode:   zipCode,
		GamerDOB:  gamerDOB,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Applicant) Validate() error {
	if a.LawFirmID == "" {
		return errors.New("law_firm_id is required")
	}
	if a.FirstName == "" {
		return errors.New("first_name is required")
	}
	if a.LastName == "" {
		return errors.New("last_name is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

func (a *Applicant) FullName() string {
	return a.FirstName + " " + a.LastName
}

type ApplicantRepositoryInterface interface {
	Create(ctx context.Context, applicant *Applicant) error
	FindByID(ctx context.Context, id string) (*Applicant, error)
}
