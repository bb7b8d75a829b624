package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLawFirmNotFound = errors.New("law firm not found")

// SMTPConfig carries the per-firm outbound email credentials. Each law firm
// sends retainer emails from its own account, never from a shared one.
type SMTPConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	User      string `json:"user"`
	Password  string `json:"-"`
	UseTLS    bool   `json:"use_tls"`
	UseSSL    bool   `json:"use_ssl"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
}

// LawFirm is the tenant. Every tenant-owned row carries a law_firm_id and
// repositories filter by it explicitly.
type LawFirm struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Subdomain    string     `json:"subdomain"`
	ContactEmail string     `json:"contact_email"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Active       bool       `json:"active"`
	SMTP         SMTPConfig `json:"smtp"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewLawFirm(name, subdomain, contactEmail string) (*LawFirm, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if subdomain == "" {
		return nil, errors.New("subdomain is required")
	}
	if contactEmail == "" {
		return nil, errors.New("contact_email is required")
	}

	return &LawFirm{
		ID:           uuid.New().String(),
		Name:         name,
		Subdomain:    subdomain,
		ContactEmail: contactEmail,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// HasEmailConfig reports whether the firm can send its own emails.
func (f *LawFirm) HasEmailConfig() bool {
	return f.SMTP.Host != "" && f.SMTP.User != "" && f.SMTP.Password != ""
}

// FromAddress builds the From header, falling back to the contact email.
func (f *LawFirm) FromAddress() string {
	from := f.SMTP.FromEmail
	if from == "" {
		from = f.ContactEmail
	}
	name := f.SMTP.FromName
	if name == "" {
		name = f.Name
	}
	if name != "" {
		return name + " <" + from + ">"
	}
	return from
}

type LawFirmRepositoryInterface interface {
	Create(ctx context.Context, firm *LawFirm) error
	FindByID(ctx context.Context, id string) (*LawFirm, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*LawFirm, error)
}
