package mail

import (
	"crypto/tls"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/legal-intake/internal/entity"
)

// LawFirmSender sends firm-branded email through the tenant's own SMTP
// account. There is no shared outbound account: each law firm's credentials
// live on its row and are dialed per send.
type LawFirmSender struct{}

func NewLawFirmSender() *LawFirmSender {
	return &LawFirmSender{}
}

// SendTemplated personalizes the stored template and sends it from the firm's
// configured address. Returns nil on success or a *SendError with the cause.
func (s *LawFirmSender) SendTemplated(firm *entity.LawFirm, to string, tmpl *entity.EmailTemplate, data Personalization) *SendError {
	if !firm.HasEmailConfig() {
		return &SendError{Kind: ErrAuth, Err: errIncompleteConfig}
	}

	subject := Personalize(tmpl.Subject, data)
	body := Personalize(tmpl.Body, data)

	m := gomail.NewMessage()
	m.SetHeader("From", firm.FromAddress())
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", htmlToText(body))

	d := gomail.NewDialer(firm.SMTP.Host, firm.SMTP.Port, firm.SMTP.User, firm.SMTP.Password)
	if firm.SMTP.UseSSL {
		d.SSL = true
	}
	if !firm.SMTP.UseTLS && !firm.SMTP.UseSSL {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if err := d.DialAndSend(m); err != nil {
		return &SendError{Kind: classify(err), Err: err}
	}
	return nil
}

// Personalize replaces the bracket placeholders the templates support.
func Personalize(text string, data Personalization) string {
	replacer := strings.NewReplacer(
		"[Name]", data.Name,
		"[First Name Injured]", data.FirstNameInjured,
		"[Last Name Injured]", data.LastNameInjured,
		"[User First Name]", firstWord(data.Name),
		"[State]", data.State,
		"[Age]", data.Age,
		"[External ID]", data.ExternalID,
		"[SIGNING_URL]", data.SigningURL,
		"[LAW_FIRM_NAME]", data.LawFirmName,
		"[LAW_FIRM_EMAIL]", data.LawFirmEmail,
		"[LAW_FIRM_PHONE]", data.LawFirmPhone,
	)
	return replacer.Replace(text)
}

// classify maps SMTP failures onto the error taxonomy. The SMTP reply codes
// are the stable part; message text varies by server.
func classify(err error) ErrorKind {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "535") || strings.Contains(msg, "534") ||
		strings.Contains(msg, "auth") || strings.Contains(msg, "username and password"):
		return ErrAuth
	case strings.Contains(msg, "550") || strings.Contains(msg, "551") ||
		strings.Contains(msg, "553") || strings.Contains(msg, "recipient"):
		return ErrRecipient
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "i/o timeout"):
		return ErrConnect
	default:
		return ErrUnknown
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

// htmlToText strips tags for the plain-text alternative part.
func htmlToText(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := b.String()
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

type configError string

func (e configError) Error() string { return string(e) }

const errIncompleteConfig = configError("law firm has incomplete email configuration")
