package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/legal-intake/internal/entity"
)

type LawFirmRepository struct {
	DB *sql.DB
}

func NewLawFirmRepository(db *sql.DB) *LawFirmRepository {
	return &LawFirmRepository{DB: db}
}

const lawFirmColumns = `
	id, name, subdomain, contact_email, phone_number, active,
	smtp_host, smtp_port, smtp_user, smtp_password, smtp_use_tls, smtp_use_ssl,
	smtp_from_email, smtp_from_name, created_at, updated_at
`

func (r *LawFirmRepository) Create(ctx context.Context, firm *entity.LawFirm) error {
	query := `
		INSERT INTO law_firms (` + lawFirmColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		firm.ID,
		firm.Name,
		firm.Subdomain,
		firm.ContactEmail,
		nullString(firm.PhoneNumber),
		firm.Active,
		nullString(firm.SMTP.Host),
		firm.SMTP.Port,
		nullString(firm.SMTP.User),
		nullString(firm.SMTP.Password),
		firm.SMTP.UseTLS,
		firm.SMTP.UseSSL,
		nullString(firm.SMTP.FromEmail),
		nullString(firm.SMTP.FromName),
		firm.CreatedAt,
		firm.UpdatedAt,
	)
	return err
}

func (r *LawFirmRepository) FindByID(ctx context.Context, id string) (*entity.LawFirm, error) {
	query := `SELECT ` + lawFirmColumns + ` FROM law_firms WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *LawFirmRepository) FindBySubdomain(ctx context.Context, subdomain string) (*entity.LawFirm, error) {
	query := `SELECT ` + lawFirmColumns + ` FROM law_firms WHERE subdomain = $1 AND active = true`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, subdomain))
}

func (r *LawFirmRepository) scanOne(row *sql.Row) (*entity.LawFirm, error) {
	var firm entity.LawFirm
	var phone, smtpHost, smtpUser, smtpPassword, fromEmail, fromName sql.NullString
	var smtpPort sql.NullInt64

	err := row.Scan(
		&firm.ID,
		&firm.Name,
		&firm.Subdomain,
		&firm.ContactEmail,
		&phone,
		&firm.Active,
		&smtpHost,
		&smtpPort,
		&smtpUser,
		&smtpPassword,
		&firm.SMTP.UseTLS,
		&firm.SMTP.UseSSL,
		&fromEmail,
		&fromName,
		&firm.CreatedAt,
		&firm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLawFirmNotFound
		}
		return nil, err
	}

	firm.PhoneNumber = phone.String
	firm.SMTP.Host = smtpHost.String
	firm.SMTP.Port = int(smtpPort.Int64)
	firm.SMTP.User = smtpUser.String
	firm.SMTP.Password = smtpPassword.String
	firm.SMTP.FromEmail = fromEmail.String
	firm.SMTP.FromName = fromName.String
	return &firm, nil
}
