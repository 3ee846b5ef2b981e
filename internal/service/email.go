package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingRequested(ctx context.Context, to, renterName, listingTitle string) error {
	subject := fmt.Sprintf("New booking request for %s", listingTitle)
	body := fmt.Sprintf("Hello,\n\n%s requested to book %s. Log in to confirm or decline.\n\nThe GearShare Team", renterName, listingTitle)
	return s.send(to, subject, body)
}

func (s *emailService) SendBookingStatusChanged(ctx context.Context, to, listingTitle, status, reason string) error {
	subject := fmt.Sprintf("Booking update: %s", listingTitle)
	body := fmt.Sprintf("Hello,\n\nYour booking for %s is now %s.", listingTitle, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nThe GearShare Team"
	return s.send(to, subject, body)
}

func (s *emailService) SendRefundIssued(ctx context.Context, to, listingTitle string, amountCents int64) error {
	subject := "Your refund has been issued"
	body := fmt.Sprintf("Hello,\n\nA refund of $%.2f was issued for %s. It may take a few business days to appear on your statement.\n\nThe GearShare Team", float64(amountCents)/100, listingTitle)
	return s.send(to, subject, body)
}

func (s *emailService) SendReturnReminder(ctx context.Context, to, listingTitle, endDate string) error {
	subject := fmt.Sprintf("Return reminder: %s", listingTitle)
	body := fmt.Sprintf("Hello,\n\nYour rental of %s was due back on %s. Please arrange the return with the lender.\n\nThe GearShare Team", listingTitle, endDate)
	return s.send(to, subject, body)
}

func (s *emailService) SendStartReminder(ctx context.Context, to, listingTitle, startDate string) error {
	subject := fmt.Sprintf("Upcoming rental: %s", listingTitle)
	body := fmt.Sprintf("Hello,\n\nYour rental of %s starts on %s.\n\nThe GearShare Team", listingTitle, startDate)
	return s.send(to, subject, body)
}
