package mail

// ErrorKind classifies a failed SMTP send so callers can branch on the cause
// instead of parsing error strings.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrAuth
	ErrConnect
	ErrRecipient
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAuth:
		return "auth_failure"
	case ErrConnect:
		return "connect_failure"
	case ErrRecipient:
		return "recipient_rejected"
	default:
		return "unknown"
	}
}

// SendError is the explicit failure result of a send attempt.
type SendError struct {
	Kind ErrorKind
	Err  error
}

func (e *SendError) Error() string {
	return "mail send failed (" + e.Kind.String() + "): " + e.Err.Error()
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Personalization feeds the placeholder substitution in stored templates.
type Personalization struct {
	Name             string
	FirstNameInjured string
	LastNameInjured  string
	State            string
	Age              string
	ExternalID       string
	SigningURL       string
	LawFirmName      string
	LawFirmEmail     string
	LawFirmPhone     string
}
