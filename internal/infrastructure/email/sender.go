package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type EmailSender struct {
	apiKey      string
	senderEmail string
	senderName  string
	frontend    string
}

func NewEmailSender(apiKey, senderEmail, frontend string) *EmailSender {
	return &EmailSender{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  "CoursePlatform",
		frontend:    frontend,
	}
}

// SendGrid request format
type sgEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
type sgRequest struct {
	Personalizations []struct {
		To []sgEmail `json:"to"`
	} `json:"personalizations"`
	From    sgEmail     `json:"from"`
	Subject string      `json:"subject"`
	Content []sgContent `json:"content"`
}

func (s *EmailSender) SendResetEmail(toEmail string, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontend, token)

	html := fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; background-color: #f4f6fb; margin: 0; padding: 0;">
		<div style="max-width: 600px; margin: 50px auto; background-color: #ffffff; padding: 30px; border-radius: 12px; text-align: center;">
			<h3>Password reset</h3>
			<p>You requested a password reset. Click the button below to set a new password.</p>
			<a href="%s" style="display: inline-block; margin: 30px 0; padding: 15px 30px; background-color: #4f6df5; color: #ffffff; text-decoration: none; font-weight: bold; border-radius: 6px;">Reset password</a>
			<p style="font-size: 12px; color: #888888;">If you did not request a reset, just ignore this email.</p>
		</div>
	</body>
	</html>`, resetLink)

	return s.send(toEmail, "Password reset", html)
}

func (s *EmailSender) SendVerificationEmail(toEmail string, token string) error {
	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", s.frontend, token)

	html := fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; background-color: #f4f6fb; margin: 0; padding: 0;">
		<div style="max-width: 600px; margin: 50px auto; background-color: #ffffff; padding: 30px; border-radius: 12px; text-align: center;">
			<h3>Confirm your email</h3>
			<p>Thanks for signing up. Confirm your email to start generating courses.</p>
			<a href="%s" style="display: inline-block; margin: 30px 0; padding: 15px 30px; background-color: #4f6df5; color: #ffffff; text-decoration: none; font-weight: bold; border-radius: 6px;">Confirm email</a>
			<p style="font-size: 12px; color: #888888;">The link is valid for 24 hours.</p>
		</div>
	</body>
	</html>`, verifyLink)

	return s.send(toEmail, "Confirm your email", html)
}

func (s *EmailSender) send(toEmail, subject, html string) error {
	body := sgRequest{
		Personalizations: []struct {
			To []sgEmail `json:"to"`
		}{
			{To: []sgEmail{{Email: toEmail}}},
		},
		From: sgEmail{
			Email: s.senderEmail,
			Name:  s.senderName,
		},
		Subject: subject,
		Content: []sgContent{{Type: "text/html", Value: html}},
	}

	bodyBytes, _ := json.Marshal(body)

	req, err := http.NewRequest(
		"POST",
		"https://api.sendgrid.com/v3/mail/send",
		bytes.NewBuffer(bodyBytes),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// SendGrid отвечает 202 при успехе
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid error: status=%d body=%s", resp.StatusCode, respBody)
	}

	return nil
}
