package usecase

import "io"

// --- Applicant registration ---

type RegisterApplicantInput struct {
	LawFirmID           string `json:"law_firm_id"`
	Subdomain           string `json:"subdomain"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	CellPhone           string `json:"cell_phone"`
	ZipCode             string `json:"zip_code"`
	GamerDOB            string `json:"gamer_dob"`
	WorkingWithAttorney bool   `json:"working_with_attorney"`
	AdditionalNotes     string `json:"additional_notes"`
}

type RegisterApplicantOutput struct {
	ApplicantID               string `json:"applicant_id"`
	RequiresParentalSignature bool   `json:"requires_parental_signature"`
	FloridaDisclosureRequired bool   `json:"florida_disclosure_required"`
}

// --- Intake form ---

type SubmitIntakeInput struct {
	ApplicantID       string   `json:"applicant_id"`
	GamerFirstName    string   `json:"gamer_first_name"`
	GamerLastName     string   `json:"gamer_last_name"`
	GuardianFirstName string   `json:"guardian_first_name"`
	GuardianLastName  string   `json:"guardian_last_name"`
	CustodyType       string   `json:"custody_type"`
	Gamertags         []string `json:"gamertags"`
	IncidentSummary   string   `json:"incident_summary"`
	MedicalSummary    string   `json:"medical_summary"`
	EconomicLoss      string   `json:"economic_loss"`
	FirstContact      string   `json:"first_contact"`
	LastContact       string   `json:"last_contact"`
	AdditionalInfo    string   `json:"additional_info"`
	ClientIP          string   `json:"-"`
}

type SubmitIntakeOutput struct {
	IntakeFormID string `json:"intake_form_id"`
	ApplicantID  string `json:"applicant_id"`
}

type IntakeStatusOutput struct {
	AlreadySubmitted bool   `json:"already_submitted"`
	IntakeFormID     string `json:"intake_form_id,omitempty"`
}

// --- Document creation ---

type CreateDocumentsInput struct {
	ApplicantID       string `json:"applicant_id"`
	TemplateType      string `json:"template_type"`
	EmailTemplateType string `json:"email_template_type"`
}

type CreateDocumentsOutput struct {
	SubmissionID              string `json:"submission_id"`
	SubmissionURL             string `json:"submission_url"`
	ExternalID                string `json:"external_id"`
	TemplateType              string `json:"template_type"`
	Status                    string `json:"status"`
	Workflow                  string `json:"workflow"`
	DocumentsCreated          int    `json:"documents_created"`
	FloridaDisclosureRequired bool   `json:"florida_disclosure_required"`
}

type DocumentStatusItem struct {
	SubmissionID string `json:"submission_id"`
	TemplateType string `json:"template_type"`
	Status       string `json:"status"`
	SigningURL   string `json:"signing_url,omitempty"`
}

type DocumentStatusOutput struct {
	ApplicantID               string               `json:"applicant_id"`
	AllCompleted              bool                 `json:"all_completed"`
	FloridaDisclosureRequired bool                 `json:"florida_disclosure_required"`
	NextSigningURL            string               `json:"next_signing_url,omitempty"`
	Documents                 []DocumentStatusItem `json:"documents"`
}

// --- Retainer batch import ---

type ImportBatchInput struct {
	LawFirmID          string
	FileName           string
	File               io.Reader
	DocumentTemplateID string
	EmailTemplateID    string
}
