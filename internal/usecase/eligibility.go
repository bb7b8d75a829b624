package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
)

// Florida statute requires a separate disclosure document before the retainer
// for residents in this zip range.
const (
	floridaZipLow  = 32003
	floridaZipHigh = 34997
)

// Eligibility is the routing decision for one applicant: which retainer
// template to send, whether a parent must co-sign, and whether the Florida
// disclosure has to be signed first.
type Eligibility struct {
	RequiresParentalSignature bool   `json:"requires_parental_signature"`
	RequiresFloridaDisclosure bool   `json:"requires_florida_disclosure"`
	RetainerTemplate          string `json:"retainer_template"`
}

// Classify decides the document/email routing from the gamer's date of birth
// and the applicant's zip code. A missing date of birth is treated as a minor,
// the conservative default.
func Classify(dob *time.Time, zipCode string) Eligibility {
	return classifyAt(dob, zipCode, time.Now())
}

func classifyAt(dob *time.Time, zipCode string, today time.Time) Eligibility {
	minor := true
	if dob != nil {
		minor = ageOn(*dob, today) < 18
	}

	e := Eligibility{
		RequiresParentalSignature: minor,
		RequiresFloridaDisclosure: RequiresFloridaDisclosure(zipCode),
		RetainerTemplate:          entity.TemplateRetainerAdult,
	}
	if minor {
		e.RetainerTemplate = entity.TemplateRetainerMinor
	}
	return e
}

// ageOn is completed years at the reference date: birthdays that have not
// happened yet this year don't count.
func ageOn(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// RequiresFloridaDisclosure checks the numeric prefix of the zip code (the
// part before any ZIP+4 hyphen) against [32003, 34997]. Malformed or empty
// zip codes never trigger the disclosure.
func RequiresFloridaDisclosure(zipCode string) bool {
	if zipCode == "" {
		return false
	}

	numeric, _, _ := strings.Cut(zipCode, "-")
	zip, err := strconv.Atoi(strings.TrimSpace(numeric))
	if err != nil {
		return false
	}
	return zip >= floridaZipLow && zip <= floridaZipHigh
}
