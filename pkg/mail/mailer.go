// Package mail renders and delivers transactional email for account flows.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Context carries the values interpolated into email templates.
type Context struct {
	Protocol   string
	Domain     string
	APIPrefix  string
	Username   string
	Email      string
	UID        string
	UIDPass    string
	Token      string
	Subject    string
}

// Sender delivers email. The worker uses the SMTP implementation; tests
// substitute their own.
type Sender interface {
	Send(to, subject, textBody, htmlBody string) error
}

// Mailer sends mail over implicit TLS (SMTPS), the way the deployment's
// mail relay expects.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

// NewMailer creates an SMTP mailer.
func NewMailer(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

// Send delivers a multipart message with a plain text body and an HTML
// alternative.
func (m *Mailer) Send(to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, textBody)
	msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)

	client, err := gomail.NewClient(
		m.host,
		gomail.WithPort(m.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.from),
		gomail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client.DialAndSend(msg)
}

// RenderHTML renders an embedded HTML template with the given context.
func RenderHTML(name string, ctx Context) (string, error) {
	tmpl, err := htmltemplate.ParseFS(templatesFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderText renders an embedded plain text template with the given context.
func RenderText(name string, ctx Context) (string, error) {
	tmpl, err := texttemplate.ParseFS(templatesFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
