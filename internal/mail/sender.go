package mail

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/pkg/config"
)

// Sender delivers welcome e-mails over SMTP with STARTTLS.
type Sender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSender constructs a Sender.
func NewSender(cfg config.SMTPConfig, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{cfg: cfg, logger: logger}
}

// HandleDelivery decodes one queued message and sends the welcome e-mail.
// Used as the consumer handler; a returned error triggers a requeue.
func (s *Sender) HandleDelivery(body []byte) error {
	var msg WelcomeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode welcome message: %w", err)
	}

	subject := "Welcome to Gympoint"
	text := renderWelcome(msg)
	to := fmt.Sprintf("%s <%s>", msg.Student.Name, msg.Student.Email)

	if err := s.send(to, msg.Student.Email, subject, text); err != nil {
		return err
	}

	s.logger.Info("welcome email sent", zap.String("to", msg.Student.Email), zap.String("plan", msg.Plan.Title))
	return nil
}

func renderWelcome(msg WelcomeMessage) string {
	const dateLayout = "January 2, 2006"
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your Gympoint registration is confirmed.\n\n"+
			"Plan: %s\n"+
			"Start date: %s\n"+
			"End date: %s\n"+
			"Monthly fee: $%.2f\n"+
			"Total for %d month(s): $%.2f\n\n"+
			"See you at the gym!\n",
		msg.Student.Name,
		msg.Plan.Title,
		msg.StartDate.Format(dateLayout),
		msg.EndDate.Format(dateLayout),
		msg.Plan.Price,
		msg.Plan.Duration,
		msg.TotalPrice,
	)
}

func (s *Sender) send(to, rcpt, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("start tls: %w", err)
		}
	}

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(rcpt); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	raw := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if _, err := w.Write([]byte(raw)); err != nil {
		return fmt.Errorf("write smtp body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close smtp body: %w", err)
	}

	return client.Quit()
}
