package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	// SalesEmail receives the quote summary notifications
	SalesEmail  string
	FrontendURL string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// QuoteItem is one line of a quote summary email
type QuoteItem struct {
	Name     string
	Quantity int
	Price    string
}

// SendQuoteSummaryEmail sends the quote summary to the sales inbox
func (s *EmailService) SendQuoteSummaryEmail(clientName, clientEmail, tarifario, total string, items []QuoteItem) error {
	htmlContent, err := renderTemplate(quoteSummaryTemplate, struct {
		ClientName  string
		ClientEmail string
		Tarifario   string
		Total       string
		Items       []QuoteItem
	}{clientName, clientEmail, tarifario, total, items})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Nuevo presupuesto ONUS Express"
	message := s.buildHTMLEmail(s.config.SalesEmail, subject, htmlContent)
	return s.sendEmail(s.config.SalesEmail, message)
}

// SendPasswordResetEmail sends a password reset email
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/restablecer?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	htmlContent, err := renderTemplate(passwordResetTemplate, struct {
		Email    string
		ResetURL string
	}{toEmail, resetURL})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Restablece tu contraseña - ONUS Express"
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)
	return s.sendEmail(toEmail, message)
}

// SendTemporaryCredentialsEmail sends the temporary password issued when an
// administrator activates a pending account
func (s *EmailService) SendTemporaryCredentialsEmail(toEmail, name, password string) error {
	htmlContent, err := renderTemplate(credentialsTemplate, struct {
		Name     string
		Email    string
		Password string
		LoginURL string
	}{name, toEmail, password, s.config.FrontendURL + "/acceso"})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Tu acceso a ONUS Express"
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)
	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func renderTemplate(tmplText string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(tmplText)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// quoteSummaryTemplate is the HTML template for quote summary emails
const quoteSummaryTemplate = `
<h2>Nuevo presupuesto solicitado</h2>
<p><strong>Cliente:</strong> {{.ClientName}}</p>
<p><strong>Email:</strong> {{.ClientEmail}}</p>
<p><strong>Tarifario:</strong> {{.Tarifario}}</p>

<table border="1" cellpadding="0" cellspacing="0" style="border-collapse:collapse;">
  <thead>
    <tr>
      <th style="padding:6px 8px;">Servicio</th>
      <th style="padding:6px 8px;">Cantidad</th>
      <th style="padding:6px 8px;">Precio</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}<tr>
      <td style="padding:6px 8px;">{{.Name}}</td>
      <td style="padding:6px 8px;">{{.Quantity}}</td>
      <td style="padding:6px 8px;">€{{.Price}}</td>
    </tr>{{end}}
  </tbody>
</table>

<p style="margin-top:16px;"><strong>Total:</strong> €{{.Total}}</p>
`

// passwordResetTemplate is the HTML template for password reset emails
const passwordResetTemplate = `
<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>Restablece tu contraseña</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,sans-serif;background-color:#f4f7fa;">
  <table role="presentation" style="max-width:600px;margin:40px auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <tr>
      <td style="background:#0b2545;padding:32px;text-align:center;">
        <h1 style="color:#ffffff;margin:0;font-size:26px;">ONUS Express</h1>
      </td>
    </tr>
    <tr>
      <td style="padding:32px;">
        <h2 style="color:#1a1a2e;margin:0 0 16px 0;">Restablece tu contraseña</h2>
        <p style="color:#4a5568;font-size:16px;line-height:1.6;">
          Hemos recibido una solicitud para restablecer la contraseña de la cuenta
          asociada a <strong>{{.Email}}</strong>.
        </p>
        <p style="color:#4a5568;font-size:16px;line-height:1.6;">
          Pulsa el botón para continuar. El enlace caduca en <strong>1 hora</strong>.
        </p>
        <table role="presentation" style="margin:24px auto;">
          <tr>
            <td style="background:#0b2545;border-radius:8px;">
              <a href="{{.ResetURL}}" style="display:inline-block;padding:14px 28px;color:#ffffff;text-decoration:none;font-weight:600;">
                Restablecer contraseña
              </a>
            </td>
          </tr>
        </table>
        <p style="color:#718096;font-size:14px;line-height:1.6;">
          Si no has solicitado este cambio puedes ignorar este mensaje; tu
          contraseña seguirá siendo la misma.
        </p>
      </td>
    </tr>
  </table>
</body>
</html>
`

// credentialsTemplate is the HTML template for temporary credential emails
const credentialsTemplate = `
<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>Tu acceso a ONUS Express</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,sans-serif;background-color:#f4f7fa;">
  <table role="presentation" style="max-width:600px;margin:40px auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <tr>
      <td style="background:#0b2545;padding:32px;text-align:center;">
        <h1 style="color:#ffffff;margin:0;font-size:26px;">ONUS Express</h1>
      </td>
    </tr>
    <tr>
      <td style="padding:32px;">
        <h2 style="color:#1a1a2e;margin:0 0 16px 0;">Hola {{.Name}},</h2>
        <p style="color:#4a5568;font-size:16px;line-height:1.6;">
          Tu cuenta ya está activa. Estas son tus credenciales temporales:
        </p>
        <p style="color:#1a1a2e;font-size:16px;background:#f1f5f9;padding:16px;border-radius:8px;">
          <strong>Usuario:</strong> {{.Email}}<br>
          <strong>Contraseña temporal:</strong> {{.Password}}
        </p>
        <p style="color:#4a5568;font-size:16px;line-height:1.6;">
          Deberás cambiar la contraseña en tu primer acceso.
        </p>
        <table role="presentation" style="margin:24px auto;">
          <tr>
            <td style="background:#0b2545;border-radius:8px;">
              <a href="{{.LoginURL}}" style="display:inline-block;padding:14px 28px;color:#ffffff;text-decoration:none;font-weight:600;">
                Acceder
              </a>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`
