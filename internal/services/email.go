package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type EmailService struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	devMode bool
}

func NewEmailService(host, port, user, pass, from string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:    host,
		port:    port,
		user:    user,
		pass:    pass,
		from:    from,
		devMode: devMode,
	}
}

// SendVerificationCode emails the 6-digit password-reset code.
func (s *EmailService) SendVerificationCode(to, code string) error {
	subject := "Your MindTrack password reset code"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; overflow: hidden; border: 1px solid #e2e8f0;">
    <div style="background: #0f172a; padding: 28px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 22px;">MindTrack</h1>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Password Reset Code</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        You requested to reset your password. Use the code below to proceed:
      </p>
      <div style="font-size: 28px; font-weight: bold; text-align: center; letter-spacing: 6px; color: #0f172a; margin: 0 0 24px;">%s</div>
      <p style="color: #94a3b8; font-size: 12px; margin: 0;">
        This code is valid for 10 minutes. If you did not request a password reset, you can safely ignore this email.
      </p>
    </div>
  </div>
</body>
</html>`, code)

	return s.sendHTML(to, subject, body)
}

// SendAccountStatusEmail notifies a user their account was activated or
// deactivated. The reason only appears on deactivation.
func (s *EmailService) SendAccountStatusEmail(to, name string, activated bool, reason string) error {
	var subject, heading, detail string
	if activated {
		subject = "Account Activated - MindTrack"
		heading = "Account Activated"
		detail = "Your account has been <strong>activated</strong>. You can now log in and continue learning."
	} else {
		subject = "Account Deactivated - MindTrack"
		heading = "Account Deactivated"
		detail = "Your account has been <strong>deactivated</strong>."
		if reason != "" {
			detail += fmt.Sprintf(" Reason: <strong>%s</strong>. If you believe this is a mistake, please contact support.", reason)
		}
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; overflow: hidden; border: 1px solid #e2e8f0;">
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">%s</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 16px;">Dear %s,</p>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0;">%s</p>
      <p style="color: #94a3b8; font-size: 12px; margin: 24px 0 0;">Thank you,<br>The MindTrack Team</p>
    </div>
  </div>
</body>
</html>`, heading, name, detail)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
