package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// EmailNotifier submits notifications over SMTP. The submission itself has no
// contract beyond success or failure; no response body is consumed.
type EmailNotifier struct {
	host      string
	port      int
	username  string
	password  string
	recipient string
	logger    *slog.Logger

	// sendMail is swapped out in tests to avoid a live SMTP dialog.
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier constructs the email channel. Incomplete credentials leave
// the channel registered but self-skipping.
func NewEmailNotifier(host string, port int, username, password, recipient string, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailNotifier{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		recipient: recipient,
		logger:    logger,
		sendMail:  smtp.SendMail,
	}
}

// Name identifies the channel in logs.
func (n *EmailNotifier) Name() string { return "email" }

// Send submits the notification as a plain-text message.
func (n *EmailNotifier) Send(ctx context.Context, subject, body string) error {
	if n.username == "" || n.password == "" || n.recipient == "" {
		return fmt.Errorf("%w: email credentials missing", ErrNotConfigured)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.username)
	fmt.Fprintf(&msg, "To: %s\r\n", n.recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := n.sendMail(addr, auth, n.username, []string{n.recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending email via %s: %w", addr, err)
	}
	return nil
}
