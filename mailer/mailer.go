// Package mailer delivers owner notifications for likes and contact
// messages. It is a thin relay: failures are returned to the caller and
// never retried here.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"soundfolio/config"
	"soundfolio/logger"
)

// Mailer is the notification relay used by the like and contact endpoints.
type Mailer interface {
	SendLikeNotice(ctx context.Context, songID, songTitle string) error
	SendContact(ctx context.Context, name, email, message string) error
}

// NewMailer builds an SMTP-backed mailer. When no SMTP host is configured a
// noop implementation is returned so the endpoints stay functional in
// development.
func NewMailer(cfg *config.Config) Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return noopMailer{}
	}
	return &smtpMailer{
		addr:  fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
		host:  cfg.SMTPHost,
		user:  cfg.SMTPUser,
		pass:  cfg.SMTPPass,
		owner: cfg.OwnerEmail,
	}
}

type smtpMailer struct {
	addr  string
	host  string
	user  string
	pass  string
	owner string
}

func (m *smtpMailer) SendLikeNotice(ctx context.Context, songID, songTitle string) error {
	subject := fmt.Sprintf("New Like on %q!", songTitle)
	body := fmt.Sprintf(
		"Someone liked your song!\r\n\r\nSong: %s\r\nSong ID: %s\r\nTime: %s\r\n",
		songTitle, songID, time.Now().Format(time.RFC1123),
	)
	return m.send(ctx, subject, body)
}

func (m *smtpMailer) SendContact(ctx context.Context, name, email, message string) error {
	subject := fmt.Sprintf("New contact message from %s", name)
	body := fmt.Sprintf(
		"Name: %s\r\nEmail: %s\r\n\r\n%s\r\n",
		name, email, message,
	)
	return m.send(ctx, subject, body)
}

// send runs the SMTP session under the caller's context: the dial honors
// cancellation and the connection deadline bounds every subsequent read
// and write, so a hung relay cannot pin the calling handler.
func (m *smtpMailer) send(ctx context.Context, subject, body string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if m.user != "" {
		if err := c.Auth(smtp.PlainAuth("", m.user, m.pass, m.host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := c.Mail(m.user); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := c.Rcpt(m.owner); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.user, m.owner, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write mail %q: %w", subject, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish mail %q: %w", subject, err)
	}

	return c.Quit()
}

// noopMailer logs instead of sending. Used when SMTP is not configured.
type noopMailer struct{}

func (noopMailer) SendLikeNotice(_ context.Context, songID, songTitle string) error {
	logger.Info("Mail disabled, skipping like notice",
		logger.String("songId", songID),
		logger.String("songTitle", songTitle))
	return nil
}

func (noopMailer) SendContact(_ context.Context, name, _ string, _ string) error {
	logger.Info("Mail disabled, skipping contact message", logger.String("name", name))
	return nil
}
