package utils

import (
	"fmt"
	"html"

	"jetacademy/config"
	"jetacademy/logging"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers one HTML email. Tests replace it to capture mail.
var EmailSender = sendGridSend

// SendEmail hands an HTML message to the configured provider.
func SendEmail(to, subject, htmlBody string) error {
	return EmailSender(to, subject, htmlBody)
}

func sendGridSend(to, subject, htmlBody string) error {
	cfg := config.AppConfig
	log := logging.With("email")

	if cfg == nil || cfg.SendGridAPIKey == "" || cfg.EmailSender == "" {
		log.Info().Str("to", to).Str("subject", subject).Msg("email provider not configured, message dropped")
		return nil
	}

	from := mail.NewEmail(cfg.EmailName, cfg.EmailSender)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", htmlBody)

	resp, err := sendgrid.NewSendClient(cfg.SendGridAPIKey).Send(message)
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("sending email failed")
		return err
	}
	if resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("body", resp.Body).Msg("email provider rejected message")
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6F8; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #0B3D91; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 32px 28px; color: #1F2933; line-height: 1.6; }
			.footer { background-color: #F4F6F8; padding: 16px; text-align: center; font-size: 12px; color: #6B7280; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #F59E0B; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>JET PROGRAM</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You are receiving this email because you are enrolled in the JET Program.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

// SendWelcomeEmail greets a newly registered student with their student id.
func SendWelcomeEmail(email, username, studentID string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your JET Program account is ready.</p>
		<p>Your student ID is <strong>%s</strong>. You will need it together with your password to sign in.</p>
	`, html.EscapeString(username), html.EscapeString(studentID))

	go SendEmail(email, "Welcome to the JET Program", getEmailTemplate("Welcome aboard!", body))
}

// SendPasswordResetEmail mails the single-use reset link.
func SendPasswordResetEmail(email, username, resetURL string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset your password. The link below is valid for one hour and can be used once.</p>
		<p><a class="btn" href="%s">Reset password</a></p>
		<p>If you did not ask for this, you can ignore this email.</p>
	`, html.EscapeString(username), html.EscapeString(resetURL))

	return SendEmail(email, "Reset your JET Program password", getEmailTemplate("Password reset", body))
}

// SendNotificationEmail delivers a notification through the email channel.
func SendNotificationEmail(email, title, content string) error {
	body := fmt.Sprintf(`<p>%s</p>`, html.EscapeString(content))
	return SendEmail(email, title, getEmailTemplate(title, body))
}
