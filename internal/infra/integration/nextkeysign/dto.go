package nextkeysign

// Message overrides the provider's default invitation email.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CreateSubmissionInput is the clean DTO the usecases hand to the client.
type CreateSubmissionInput struct {
	TemplateID string
	Name       string
	Email      string
	Role       string
	ExternalID string
	Values     map[string]string

	// SendEmail lets the provider deliver its own invitation. Retainer
	// campaigns disable it and send firm-branded email instead.
	SendEmail bool

	Message              *Message
	CompletedRedirectURL string
	DeclinedRedirectURL  string
}

// CreateSubmissionOutput carries the provider identifiers the workflow tracks.
type CreateSubmissionOutput struct {
	SubmissionID string
	SubmitterID  string
	Slug         string
}

// --- Wire payloads (what actually goes to NextKeySign) ---

type submitterRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       string            `json:"role,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
}

type createSubmissionRequest struct {
	TemplateID           string             `json:"template_id"`
	SendEmail            bool               `json:"send_email"`
	Submitters           []submitterRequest `json:"submitters"`
	Message              *Message           `json:"message,omitempty"`
	CompletedRedirectURL string             `json:"completed_redirect_url,omitempty"`
	DeclinedRedirectURL  string             `json:"declined_redirect_url,omitempty"`
}

// The provider answers with an array of submitters, one per signing party.
type submitterResponse struct {
	ID           int64  `json:"id"`
	SubmissionID int64  `json:"submission_id"`
	Slug         string `json:"slug"`
	Email        string `json:"email"`
	Status       string `json:"status"`
}
