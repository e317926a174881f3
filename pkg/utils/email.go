package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/siyaha-app/siyaha-backend/internal/models"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Siyaha"
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #C0392B; margin: 0;">Siyaha</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 Siyaha. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}
	return nil
}

// SendBookingConfirmationEmail notifies the traveler their booking is
// confirmed.
func SendBookingConfirmationEmail(traveler *models.User, booking *models.Booking, experienceTitle string) error {
	subject := "Your booking is confirmed"
	body := emailHeader + fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Your booking for <strong>%s</strong> on %s is confirmed.</p>
		<p>Booking reference: <strong>%s</strong></p>
		<p>Participants: %d, total: %.2f %s</p>
	`, traveler.Username, experienceTitle, booking.BookingDate.Format("January 2, 2006"),
		booking.Token, booking.Participants, booking.TotalAmount, booking.Currency) + emailFooter

	return sendEmail([]string{traveler.Email}, subject, body)
}

// SendBookingCancellationEmail notifies a party the booking was cancelled.
func SendBookingCancellationEmail(recipient *models.User, booking *models.Booking, reason string) error {
	subject := "Booking cancelled"
	if reason == "" {
		reason = "No reason given"
	}
	body := emailHeader + fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Booking <strong>%s</strong> has been cancelled.</p>
		<p>Reason: %s</p>
	`, recipient.Username, booking.Token, reason) + emailFooter

	return sendEmail([]string{recipient.Email}, subject, body)
}

// SMTPMailer adapts the package email helpers to the booking lifecycle.
type SMTPMailer struct{}

func (SMTPMailer) SendConfirmation(traveler *models.User, booking *models.Booking, experienceTitle string) error {
	return SendBookingConfirmationEmail(traveler, booking, experienceTitle)
}

func (SMTPMailer) SendCancellation(recipient *models.User, booking *models.Booking, reason string) error {
	return SendBookingCancellationEmail(recipient, booking, reason)
}

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to Siyaha"
	body := emailHeader + fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Welcome aboard! Start exploring authentic local experiences today.</p>
	`, user.Username) + emailFooter

	return sendEmail([]string{user.Email}, subject, body)
}
