package email

import (
	"bytes"
	"fmt"
	"go-agency-backend/config"
	"html/template"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
)

// EmailService sends lead notifications via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// LeadEmailData holds the data rendered into a lead notification
type LeadEmailData struct {
	FormName    string
	SenderName  string
	SenderEmail string
	Fields      []LeadField
}

type LeadField struct {
	Label string
	Value string
}

// NewEmailService creates a new email service from the SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		toEmail:   cfg.LeadEmailTo,
		send:      smtp.SendMail,
	}
}

const leadEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New {{.FormName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f2937; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New {{.FormName}}</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">From:</div>
                <div class="value">{{.SenderName}} ({{.SenderEmail}})</div>
            </div>
            {{range .Fields}}
            <div class="field">
                <div class="label">{{.Label}}:</div>
                <div class="value">{{.Value}}</div>
            </div>
            {{end}}
        </div>
        <div class="footer">
            <p>To reply, send an email to: {{.SenderEmail}}</p>
        </div>
    </div>
</body>
</html>`

var leadTmpl = template.Must(template.New("lead").Parse(leadEmailTemplate))

// SendLeadEmail sends a lead notification to the configured recipient
func (s *EmailService) SendLeadEmail(data LeadEmailData) error {
	var body bytes.Buffer
	if err := leadTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("%s from %s", data.FormName, sanitizeHeader(data.SenderName))

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		sanitizeHeader(data.SenderEmail),
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{s.toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}

// LeadFields turns normalized form values into sorted label/value rows,
// skipping the sender's name and email which the header already shows
func LeadFields(values map[string]any, label func(string) string) []LeadField {
	names := make([]string, 0, len(values))
	for name := range values {
		if name == "name" || name == "email" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]LeadField, 0, len(names))
	for _, name := range names {
		value := fmt.Sprint(values[name])
		if f, ok := values[name].(float64); ok {
			value = strconv.FormatFloat(f, 'f', -1, 64)
		}
		out = append(out, LeadField{Label: label(name), Value: value})
	}
	return out
}

// sanitizeHeader strips CR/LF so user input cannot inject headers
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
