package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

// ErrMailerDisabled is returned when no Gmail client was configured.
var ErrMailerDisabled = errors.New("email sending is not configured")

type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer delivers a composed email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type EmailService struct {
	GmailClient *gmail.Service
	Sender      string

	attempts int
	backoff  time.Duration
}

func NewEmailService(client *gmail.Service, sender string) *EmailService {
	return &EmailService{
		GmailClient: client,
		Sender:      sender,
		attempts:    3,
		backoff:     time.Second,
	}
}

// Send delivers the email through the authenticated Gmail account.
func (s *EmailService) Send(ctx context.Context, email Email) error {
	if s.GmailClient == nil {
		return ErrMailerDisabled
	}
	if email.From == "" {
		email.From = s.Sender
	}
	raw, err := buildMessage(email)
	if err != nil {
		return err
	}
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}

	var sent *gmail.Message
	err = retry(ctx, s.attempts, s.backoff, func() error {
		var e error
		sent, e = s.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
		return e
	})
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	log.Printf("[mail] sent %q to %s (id=%s)", email.Subject, strings.Join(email.To, ", "), sent.Id)
	return nil
}

// buildMessage renders a minimal RFC 2822 plain-text message.
func buildMessage(email Email) ([]byte, error) {
	if len(email.To) == 0 {
		return nil, fmt.Errorf("email has no recipients")
	}
	for _, h := range append([]string{email.From, email.Subject}, email.To...) {
		if strings.ContainsAny(h, "\r\n") {
			return nil, fmt.Errorf("header contains a line break")
		}
	}

	var b bytes.Buffer
	if email.From != "" {
		fmt.Fprintf(&b, "From: %s\r\n", email.From)
	}
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "\r\n"))
	return b.Bytes(), nil
}

// retry executes f with exponential backoff. Client errors fail fast.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanentError(err) || i == attempts-1 {
			break
		}

		log.Printf("[mail] API error: %v. Retrying in %v...", err, sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return err
}

func isPermanentError(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != 429
	}
	return false
}
