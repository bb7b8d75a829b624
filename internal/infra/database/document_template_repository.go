package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type DocumentTemplateRepository struct {
	DB *sql.DB
}

func NewDocumentTemplateRepository(db *sql.DB) *DocumentTemplateRepository {
	return &DocumentTemplateRepository{DB: db}
}

const documentTemplateColumns = `
	id, name, display_name, law_firm_id, nextkeysign_template_id, description, active, created_at
`

func (r *DocumentTemplateRepository) Create(ctx context.Context, t *entity.DocumentTemplate) error {
	query := `
		INSERT INTO document_templates (` + documentTemplateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.DisplayName,
		t.LawFirmID,
		t.NextKeySignTemplateID,
		nullString(t.Description),
		t.Active,
		t.CreatedAt,
	)
	return err
}

func (r *DocumentTemplateRepository) FindByID(ctx context.Context, id string) (*entity.DocumentTemplate, error) {
	query := `SELECT ` + documentTemplateColumns + ` FROM document_templates WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// FindForLawFirm resolves a template name for a tenant: the firm's own row
// wins, the global row (law_firm_id IS NULL) is the fallback.
func (r *DocumentTemplateRepository) FindForLawFirm(ctx context.Context, name, lawFirmID string) (*entity.DocumentTemplate, error) {
	query := `
		SELECT ` + documentTemplateColumns + `
		FROM document_templates
		WHERE name = $1 AND active = true AND (law_firm_id = $2 OR law_firm_id IS NULL)
		ORDER BY law_firm_id NULLS LAST
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, name, lawFirmID))
}

func (r *DocumentTemplateRepository) scanOne(row *sql.Row) (*entity.DocumentTemplate, error) {
	var t entity.DocumentTemplate
	var lawFirmID, description sql.NullString

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.DisplayName,
		&lawFirmID,
		&t.NextKeySignTemplateID,
		&description,
		&t.Active,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrTemplateNotFound
		}
		return nil, err
	}

	if lawFirmID.Valid {
		t.LawFirmID = &lawFirmID.String
	}
	t.Description = description.String
	return &t, nil
}
