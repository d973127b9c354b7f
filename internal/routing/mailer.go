package routing

import (
	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/pkg/logger"
)

// SendContactEmails is the internal-notification side channel launched after
// a submission is durably stored. It is a safe stub that logs the intent;
// wire a real provider here (internal notification + patient acknowledgment)
// in production. Callers discard its result beyond logging.
func SendContactEmails(contact models.ContactSubmission) {
	logger.Infow("contact email dispatch (stub)", map[string]any{
		"contactId": contact.ID,
		"email":     contact.Email,
	})
}
