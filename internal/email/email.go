// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

func (s *Service) loadTemplates() {
	s.templates["password_reset"] = template.Must(template.New("password_reset").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #334155; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .btn { display: inline-block; background: #334155; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Redefinição de senha</h2>
    </div>
    <div class="content">
        <p>Olá {{.Name}},</p>
        <p>Recebemos um pedido de redefinição de senha para a sua conta.</p>

        <a href="{{.ResetURL}}" class="btn">Redefinir senha</a>

        <p style="margin-top: 16px; font-size: 14px; color: #6b7280;">
            O link expira em breve. Se você não pediu a redefinição, ignore este email.
        </p>
    </div>
    <div class="footer">
        Registro de Membros
    </div>
</div>
</body>
</html>
`))
}

// PasswordResetData holds data for the password reset email
type PasswordResetData struct {
	Name     string
	ResetURL string
}

// SendPasswordReset sends a password reset email
func (s *Service) SendPasswordReset(to, name, resetURL string) error {
	return s.SendWithTemplate(
		[]string{to},
		"Redefinição de senha",
		"password_reset",
		PasswordResetData{Name: name, ResetURL: resetURL},
	)
}

// Send sends a raw email message
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}
		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}
		for _, rcpt := range email.To {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}
		if _, err = w.Write(msg.Bytes()); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	return smtp.SendMail(addr, auth, s.config.From, email.To, msg.Bytes())
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}
