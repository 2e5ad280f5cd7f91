package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendInterpretationReady(toEmail, topic, personaName, interpretationId string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendInterpretationReady(toEmail, topic, personaName, interpretationId string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your dream interpretation is ready")

	link := fmt.Sprintf("%s/interpretations/%s", s.frontendURL, interpretationId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your dream has been interpreted</h2>
			<p>%s has finished reading your dream:</p>
			<h3 style="color: #4B0082;">%s</h3>
			<a href="%s" style="background-color: #4B0082; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Read the interpretation</a>
			<p>Or copy this link:</p>
			<p>%s</p>
		</div>
	`, personaName, topic, link, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send interpretation-ready mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Interpretation-ready mail sent to %s\n", toEmail)
	return nil
}
