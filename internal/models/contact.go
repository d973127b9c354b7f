package models

// ContactSubmission is one contact-form record. The collection is
// append-only: the core never edits or deletes entries.
type ContactSubmission struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Concern   string `json:"concern"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}
