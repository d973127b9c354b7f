package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Route is the configured delivery mechanism for a contact submission, read
// from contactSection.formRoute in the published content.
type Route struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Outcome reports how a submission was routed. Type is the discriminator:
// none, email, url, or whatsapp.
type Outcome struct {
	Type        string `json:"type"`
	OK          *bool  `json:"ok,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Status      int    `json:"status,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// NormalizeRoute lowercases the type tag and trims the value. A nil or
// malformed route becomes {none, ""}.
func NormalizeRoute(raw any) Route {
	m, ok := raw.(map[string]any)
	if !ok {
		return Route{Type: "none"}
	}
	t, _ := m["type"].(string)
	if t == "" {
		t = "none"
	}
	v, _ := m["value"].(string)
	return Route{
		Type:  strings.ToLower(t),
		Value: strings.TrimSpace(v),
	}
}

// BuildMessage renders the fixed plaintext summary shared by the email and
// whatsapp routes.
func BuildMessage(c models.ContactSubmission) string {
	return strings.Join([]string{
		"New contact request",
		strings.TrimSpace("Name: " + c.FirstName + " " + c.LastName),
		"Email: " + c.Email,
		"Phone: " + c.Phone,
		"Concern: " + c.Concern,
		"Message: " + c.Message,
		"ID: " + c.ID,
		"Created: " + c.CreatedAt,
	}, "\n")
}

// MailSender delivers one plaintext message; satisfied by gomail's Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Dispatcher fans a persisted contact submission out to its configured route.
// Every route is best-effort: the dispatcher reports failures in the Outcome
// and never returns an error that could fail the submission itself.
type Dispatcher struct {
	smtp   config.SMTPConfig
	client *http.Client
	dialer func(cfg config.SMTPConfig) MailSender
}

// NewDispatcher builds a dispatcher. client may be nil, in which case the url
// route reports fetch_unavailable instead of calling out.
func NewDispatcher(smtp config.SMTPConfig, client *http.Client) *Dispatcher {
	return &Dispatcher{
		smtp:   smtp,
		client: client,
		dialer: func(cfg config.SMTPConfig) MailSender {
			return gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
		},
	}
}

// Dispatch runs exactly one route for the contact, selected by the route
// type tag. Unknown tags fall through to the none outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, contact models.ContactSubmission, route Route) Outcome {
	if route.Value == "" || route.Type == "none" {
		return Outcome{Type: "none"}
	}

	switch route.Type {
	case "email":
		return d.sendEmail(contact, route.Value)
	case "url":
		return d.postWebhook(ctx, contact, route.Value)
	case "whatsapp":
		return buildWhatsappOutcome(contact, route.Value)
	default:
		return Outcome{Type: "none"}
	}
}

func (d *Dispatcher) sendEmail(contact models.ContactSubmission, value string) Outcome {
	cfg := d.smtp
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	to := value
	if to == "" {
		to = cfg.To
	}

	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" || from == "" || to == "" {
		logger.Warnw("email route skipped: missing SMTP config", map[string]any{
			"host": cfg.Host != "", "user": cfg.User != "", "from": from != "", "to": to != "",
		})
		return Outcome{Type: "email", OK: boolPtr(false), Reason: "missing_smtp_config"}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New contact request")
	m.SetBody("text/plain", BuildMessage(contact))

	if err := d.dialer(cfg).DialAndSend(m); err != nil {
		logger.Errorw("email route failed", map[string]any{"error": err.Error()})
		return Outcome{Type: "email", OK: boolPtr(false), Reason: "send_failed"}
	}
	return Outcome{Type: "email", OK: boolPtr(true)}
}

var webhookScheme = regexp.MustCompile(`^https?://`)

func (d *Dispatcher) postWebhook(ctx context.Context, contact models.ContactSubmission, value string) Outcome {
	if !webhookScheme.MatchString(strings.ToLower(value)) {
		return Outcome{Type: "url", OK: boolPtr(false), Reason: "invalid_url"}
	}
	if d.client == nil {
		logger.Warnf("url route skipped: no HTTP client available")
		return Outcome{Type: "url", OK: boolPtr(false), Reason: "fetch_unavailable"}
	}

	body, err := json.Marshal(contact)
	if err != nil {
		return Outcome{Type: "url", OK: boolPtr(false), Reason: "marshal_failed"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, value, bytes.NewReader(body))
	if err != nil {
		return Outcome{Type: "url", OK: boolPtr(false), Reason: "invalid_url"}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Errorw("url route failed", map[string]any{"error": err.Error()})
		return Outcome{Type: "url", OK: boolPtr(false), Reason: "request_failed"}
	}
	defer resp.Body.Close()
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return Outcome{Type: "url", OK: boolPtr(ok), Status: resp.StatusCode}
}

var nonDigits = regexp.MustCompile(`\D+`)

func buildWhatsappOutcome(contact models.ContactSubmission, value string) Outcome {
	phone := nonDigits.ReplaceAllString(value, "")
	if phone == "" {
		return Outcome{Type: "whatsapp"}
	}
	redirect := fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(BuildMessage(contact)))
	return Outcome{Type: "whatsapp", RedirectURL: redirect}
}
