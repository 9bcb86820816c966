package email

import (
	"fmt"
	"net/smtp"

	"portfolio-backend/config"
	"portfolio-backend/model"

	"github.com/rs/zerolog/log"
)

// Notifier emails the site administrator about new contact messages. The
// notification path is disabled by default: submissions are persisted either
// way and a disabled notifier only logs.
type Notifier struct {
	cfg config.EmailConfig
}

// NewNotifier creates a notifier from configuration
func NewNotifier(cfg config.EmailConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// NotifyNewContact sends the admin notification for a new contact message
func (n *Notifier) NotifyNewContact(msg model.ContactMessage) error {
	if !n.cfg.Enabled || n.cfg.AdminEmail == "" {
		log.Info().Str("id", msg.ID).Msg("Email notifications disabled - contact message saved without notification")
		return nil
	}

	subject := fmt.Sprintf("New contact message from %s", msg.Name)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>New Contact Message</h2>
        <p><strong>From:</strong> %s &lt;%s&gt;</p>
        <p><strong>Received:</strong> %s</p>
        <p><strong>Message:</strong></p>
        <blockquote style="background: #f9f9f9; padding: 15px; border-left: 4px solid #667eea;">%s</blockquote>
        <p style="font-size: 12px; color: #666;">IP: %s</p>
    </div>
</body>
</html>
`, msg.Name, msg.Email, msg.Date.Format("Jan 2, 2006 15:04"), msg.Message, msg.IPAddress)

	return n.send(n.cfg.AdminEmail, subject, body)
}

func (n *Notifier) send(to, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.FromEmail)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, to, subject, body,
	))

	auth := smtp.PlainAuth("", n.cfg.SMTPUsername, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%s", n.cfg.SMTPHost, n.cfg.SMTPPort)

	if err := smtp.SendMail(addr, auth, n.cfg.FromEmail, []string{to}, msg); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return err
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("Email sent successfully")
	return nil
}
