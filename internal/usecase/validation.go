package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateRegisterApplicantInput(input RegisterApplicantInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FirstName) == "" {
		errors = append(errors, ValidationError{"first_name", "is required"})
	} else if len(input.FirstName) > 100 {
		errors = append(errors, ValidationError{"first_name", "must not exceed 100 characters"})
	}

	if strings.TrimSpace(input.LastName) == "" {
		errors = append(errors, ValidationError{"last_name", "is required"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.CellPhone) == "" {
		errors = append(errors, ValidationError{"cell_phone", "is required"})
	} else if !isValidPhoneNumber(input.CellPhone) {
		errors = append(errors, ValidationError{"cell_phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(input.ZipCode) == "" {
		errors = append(errors, ValidationError{"zip_code", "is required"})
	} else if !isValidZipCode(input.ZipCode) {
		errors = append(errors, ValidationError{"zip_code", "must be a valid zip code (XXXXX or XXXXX-XXXX)"})
	}

	// Gamer DOB is optional on purpose: no DOB means the classifier assumes a
	// minor. When present it has to parse.
	if input.GamerDOB != "" && !isValidDate(input.GamerDOB) {
		errors = append(errors, ValidationError{"gamer_dob", "must be a valid date (YYYY-MM-DD)"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 11
}

func isValidDate(dateStr string) bool {
	if _, err := time.Parse("2006-01-02", dateStr); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return true
	}
	return false
}

// US zip: five digits with an optional +4 suffix.
func isValidZipCode(zipcode string) bool {
	return regexp.MustCompile(`^\d{5}(-\d{4})?$`).MatchString(strings.TrimSpace(zipcode))
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil
}

var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true,
}

// isValidStateCode accepts empty (the column is optional in uploads).
func isValidStateCode(state string) bool {
	if state == "" {
		return true
	}
	return usStates[strings.ToUpper(strings.TrimSpace(state))]
}
