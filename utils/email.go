package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendEmail sends an HTML email through the configured SMTP server.
func SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("smtp not configured")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendEnrollmentConfirmation tells a student their course access is
// unlocked. Callers treat failures as best-effort: a bounced email never
// fails the payment confirmation that triggered it.
func SendEnrollmentConfirmation(to, firstName, courseTitle string) error {
	subject := fmt.Sprintf("Payment approved: %s", courseTitle)
	body := fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>Your payment was confirmed.</p>
		<p>You now have full access to <strong>%s</strong> on the platform.</p>
		<p>Happy studying!</p>
	`, firstName, courseTitle)
	return SendEmail(to, subject, body)
}

// SendOrderPaidEmail confirms an order payment to the customer.
func SendOrderPaidEmail(to, firstName string, orderID uint) error {
	subject := fmt.Sprintf("Payment received for order #%d", orderID)
	body := fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>We received the payment for your order <strong>#%d</strong>.</p>
		<p>We are now preparing it for shipping.</p>
	`, firstName, orderID)
	return SendEmail(to, subject, body)
}
