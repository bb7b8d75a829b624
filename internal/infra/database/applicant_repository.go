package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type ApplicantRepository struct {
	DB *sql.DB
}

func NewApplicantRepository(db *sql.DB) *ApplicantRepository {
	return &ApplicantRepository{DB: db}
}

func (r *ApplicantRepository) Create(ctx context.Context, a *entity.Applicant) error {
	query := `
		INSERT INTO applicants (
			id, law_firm_id, first_name, last_name, email, cell_phone, zip_code,
			gamer_dob, working_with_attorney, additional_notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.LawFirmID,
		a.FirstName,
		a.LastName,
		a.Email,
		a.CellPhone,
		a.ZipCode,
		a.GamerDOB,
		a.WorkingWithAttorney,
		nullString(a.AdditionalNotes),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		log.Printf("Applicant insert failed: %v", err)
		return err
	}
	return nil
}

func (r *ApplicantRepository) FindByID(ctx context.Context, id string) (*entity.Applicant, error) {
	query := `
		SELECT id, law_firm_id, first_name, last_name, email, cell_phone, zip_code,
		       gamer_dob, working_with_attorney, additional_notes, created_at, updated_at
		FROM applicants
		WHERE id = $1
	`

	var a entity.Applicant
	var notes sql.NullString
	var dob sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.LawFirmID,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.CellPhone,
		&a.ZipCode,
		&dob,
		&a.WorkingWithAttorney,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrApplicantNotFound
		}
		return nil, err
	}

	if dob.Valid {
		a.GamerDOB = &dob.Time
	}
	a.AdditionalNotes = notes.String
	return &a, nil
}
