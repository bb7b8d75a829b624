package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type IntakeFormRepository struct {
	DB *sql.DB
}

func NewIntakeFormRepository(db *sql.DB) *IntakeFormRepository {
	return &IntakeFormRepository{DB: db}
}

func (r *IntakeFormRepository) Create(ctx context.Context, form *entity.IntakeForm) error {
	query := `
		INSERT INTO intake_forms (
			id, applicant_id, law_firm_id, gamer_first_name, gamer_last_name,
			guardian_first_name, guardian_last_name, custody_type, gamertags,
			incident_summary, medical_summary, economic_loss, first_contact,
			last_contact, additional_info, client_ip, submitted_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.DB.ExecContext(ctx, query,
		form.ID,
		form.ApplicantID,
		form.LawFirmID,
		form.GamerFirstName,
		form.GamerLastName,
		form.GuardianFirstName,
		form.GuardianLastName,
		nullString(form.CustodyType),
		pq.Array(form.Gamertags),
		form.IncidentSummary,
		nullString(form.MedicalSummary),
		nullString(form.EconomicLoss),
		form.FirstContact,
		form.LastContact,
		nullString(form.AdditionalInfo),
		nullString(form.ClientIP),
		form.SubmittedAt,
		form.CreatedAt,
	)
	if err != nil {
		// applicant_id carries a unique constraint: one intake per applicant.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrIntakeAlreadyExists
		}
		return err
	}
	return nil
}

func (r *IntakeFormRepository) FindByApplicantID(ctx context.Context, applicantID string) (*entity.IntakeForm, error) {
	query := `
		SELECT id, applicant_id, law_firm_id, gamer_first_name, gamer_last_name,
		       guardian_first_name, guardian_last_name, custody_type, gamertags,
		       incident_summary, medical_summary, economic_loss, first_contact,
		       last_contact, additional_info, client_ip, submitted_at, created_at
		FROM intake_forms
		WHERE applicant_id = $1
	`

	var form entity.IntakeForm
	var custody, medical, economic, info, clientIP sql.NullString
	var firstContact, lastContact sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, applicantID).Scan(
		&form.ID,
		&form.ApplicantID,
		&form.LawFirmID,
		&form.GamerFirstName,
		&form.GamerLastName,
		&form.GuardianFirstName,
		&form.GuardianLastName,
		&custody,
		pq.Array(&form.Gamertags),
		&form.IncidentSummary,
		&medical,
		&economic,
		&firstContact,
		&lastContact,
		&info,
		&clientIP,
		&form.SubmittedAt,
		&form.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrIntakeNotFound
		}
		return nil, err
	}

	form.CustodyType = custody.String
	form.MedicalSummary = medical.String
	form.EconomicLoss = economic.String
	form.AdditionalInfo = info.String
	form.ClientIP = clientIP.String
	if firstContact.Valid {
		form.FirstContact = &firstContact.Time
	}
	if lastContact.Valid {
		form.LastContact = &lastContact.Time
	}
	return &form, nil
}
