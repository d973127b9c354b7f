package validation

import (
	"regexp"

	"github.com/cccenter/site-backend/internal/models"
)

// ContactPayload is the raw contact-form body.
type ContactPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Concern   string `json:"concern"`
	Message   string `json:"message"`
}

// ContactResult is a tagged validation outcome; it never carries an error
// value, only a user-safe message.
type ContactResult struct {
	OK    bool
	Error string
	Data  models.ContactSubmission
}

// Conservative server-side check; the client may be stricter. Intentionally
// permissive compared to full RFC address grammar.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

var allowedConcerns = map[string]bool{
	"diagnosis": true,
	"treatment": true,
	"genetic":   true,
	"support":   true,
}

// ValidateContact trims, length-caps, and checks a contact submission.
// Any length violation collapses to a generic message.
func ValidateContact(p ContactPayload) ContactResult {
	genericErr := ContactResult{Error: "Please review the form fields and try again."}

	firstName, err := cleanString(p.FirstName, 80)
	if err != nil {
		return genericErr
	}
	lastName, err := cleanString(p.LastName, 80)
	if err != nil {
		return genericErr
	}
	email, err := cleanString(p.Email, 160)
	if err != nil {
		return genericErr
	}
	phone, err := cleanString(p.Phone, 40)
	if err != nil {
		return genericErr
	}
	concern, err := cleanString(p.Concern, 120)
	if err != nil {
		return genericErr
	}
	message := ""
	if p.Message != "" {
		if message, err = cleanString(p.Message, 4000); err != nil {
			return genericErr
		}
	}

	if firstName == "" || lastName == "" {
		return ContactResult{Error: "Please provide your first and last name."}
	}
	if email == "" || !emailPattern.MatchString(email) {
		return ContactResult{Error: "Please provide a valid email address."}
	}
	if phone == "" {
		return ContactResult{Error: "Please provide a contact phone number."}
	}
	if !allowedConcerns[concern] {
		return ContactResult{Error: "Please select a valid primary concern."}
	}

	return ContactResult{
		OK: true,
		Data: models.ContactSubmission{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Phone:     phone,
			Concern:   concern,
			Message:   message,
		},
	}
}
