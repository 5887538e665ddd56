package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAlert(toEmail, subject, body string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendAlert mails an operator alert. Alert text is preformatted plain text;
// keep it monospaced so intel blocks line up.
func (s *emailService) SendAlert(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>SafeTalk H.I.V.E. Alert</h2>
			<pre style="background: #f5f5f5; padding: 12px; border-radius: 5px;">%s</pre>
			<p style="color:#888;">Automated message from the honeypot engine.</p>
		</div>
	`, body)

	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Alert sent to %s\n", toEmail)
	return nil
}
