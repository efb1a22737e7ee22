package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"villa-booking/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("mail has no recipients")

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is an HTML email
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer sends messages and returns the Message-ID used
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPConfig holds transport credentials
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	RatePerSecond float64
}

// SMTPMailer keeps one SMTP connection open across sends and reconnects
// when the server drops it.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	limiter *rate.Limiter

	mu     sync.Mutex
	sender gomail.SendCloser
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Send waits for the rate limiter, then delivers msg. The SMTP exchange
// itself is not interruptible; ctx only bounds how long the caller waits.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("mail rate limiter: %w", err)
	}

	gm, messageID := BuildMessage(m.from, msg)

	done := make(chan error, 1)
	go func() {
		done <- m.deliver(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", err
		}
		return messageID, nil
	case <-ctx.Done():
		return "", fmt.Errorf("mail send to %s abandoned: %w", strings.Join(msg.To, ","), ctx.Err())
	}
}

func (m *SMTPMailer) deliver(gm *gomail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		if m.sender == nil {
			s, err := m.dialer.Dial()
			if err != nil {
				return fmt.Errorf("failed to connect to SMTP server: %w", err)
			}
			m.sender = s
		}

		err := gomail.Send(m.sender, gm)
		if err == nil {
			return nil
		}
		// Stale connection; drop it and redial once
		logger.Warning(fmt.Sprintf("SMTP send failed, reconnecting: %v", err))
		m.sender.Close()
		m.sender = nil
		if attempt == 1 {
			return fmt.Errorf("failed to send mail: %w", err)
		}
	}
	return nil
}

// Close releases the SMTP connection.
func (m *SMTPMailer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sender == nil {
		return nil
	}
	err := m.sender.Close()
	m.sender = nil
	return err
}

// BuildMessage converts msg to a gomail message with a fresh Message-ID.
func BuildMessage(from string, msg Message) (*gomail.Message, string) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from))

	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetHeader("Message-ID", messageID)
	gm.SetBody("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		data := a.Data
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
		)
	}
	return gm, messageID
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return strings.Trim(address[i+1:], "> ")
	}
	return "localhost"
}
