package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"subscription-api/internal/config"
	"subscription-api/pkg/logging"
)

// BrevoService sends transactional email via the Brevo API. Purchase
// receipts are sent by the HTTP layer after the purchase committed, never by
// the ledger engine itself.
type BrevoService struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewBrevoService creates a new Brevo service instance
func NewBrevoService() *BrevoService {
	return &BrevoService{
		APIKey:    config.AppConfig.BrevoAPIKey,
		FromEmail: config.AppConfig.BrevoFromEmail,
		FromName:  config.AppConfig.BrevoFromName,
	}
}

// Enabled reports whether email sending is configured
func (s *BrevoService) Enabled() bool {
	return s.APIKey != "" && s.FromEmail != ""
}

// EmailRequest represents Brevo email request structure
type EmailRequest struct {
	Sender      EmailSender `json:"sender"`
	To          []EmailTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
	TextContent string      `json:"textContent"`
}

type EmailSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendPurchaseReceipt emails the user a receipt for a completed package
// purchase. A missing Brevo configuration silently skips sending.
func (s *BrevoService) SendPurchaseReceipt(toEmail, toName, packageName string, price float64, credits int) error {
	if !s.Enabled() {
		logging.Infof("Brevo not configured, skipping receipt email to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Purchase receipt - %s", packageName)
	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Purchase receipt</title>
		</head>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333; margin-bottom: 20px;">Thanks for your purchase</h1>
				<p style="color: #666; font-size: 16px;">Hi %s,</p>
				<p style="color: #666; font-size: 16px;">Your subscription to <strong>%s</strong> is now active.</p>
				<div style="background-color: #ffffff; padding: 20px; border-radius: 10px; margin: 20px 0;">
					<p style="color: #333; font-size: 16px; margin: 5px 0;">Amount charged: $%.2f</p>
					<p style="color: #333; font-size: 16px; margin: 5px 0;">Credits granted: %d</p>
				</div>
				<p style="color: #999; font-size: 12px; margin-top: 30px;">If you did not make this purchase, please contact support.</p>
			</div>
		</body>
		</html>
	`, toName, packageName, price, credits)

	textContent := fmt.Sprintf(`
		Thanks for your purchase

		Hi %s,

		Your subscription to %s is now active.
		Amount charged: $%.2f
		Credits granted: %d

		If you did not make this purchase, please contact support.
	`, toName, packageName, price, credits)

	emailReq := EmailRequest{
		Sender: EmailSender{
			Name:  s.FromName,
			Email: s.FromEmail,
		},
		To: []EmailTo{
			{Email: toEmail, Name: toName},
		},
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	}

	return s.sendEmail(emailReq)
}

// sendEmail sends email via Brevo API
func (s *BrevoService) sendEmail(req EmailRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.APIKey)

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}

	return nil
}
