package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	gm, id := BuildMessage("Villa Booking <billing@villa.test>", Message{
		To:      []string{"guest@example.com"},
		Subject: "Thank you for staying with us",
		HTML:    "<p>Hello</p>",
		Attachments: []Attachment{
			{Filename: "invoice-INV-7-20250109.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	})

	if !strings.HasPrefix(id, "<") || !strings.HasSuffix(id, "@villa.test>") {
		t.Errorf("unexpected Message-ID %q", id)
	}

	var buf bytes.Buffer
	if _, err := gm.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{
		"To: guest@example.com",
		"Subject: Thank you for staying with us",
		"Message-ID: " + id,
		`filename="invoice-INV-7-20250109.pdf"`,
		"text/html",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestBuildMessageUniqueIDs(t *testing.T) {
	_, a := BuildMessage("a@b.c", Message{To: []string{"x@y.z"}})
	_, b := BuildMessage("a@b.c", Message{To: []string{"x@y.z"}})
	if a == b {
		t.Error("Message-ID must differ between messages")
	}
}

func TestSendRequiresRecipients(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "a@b.c"})
	if _, err := m.Send(context.Background(), Message{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
}

func TestDomainOf(t *testing.T) {
	tests := map[string]string{
		"billing@villa.test":         "villa.test",
		"Villa <billing@villa.test>": "villa.test",
		"no-at-sign":                 "localhost",
	}
	for in, want := range tests {
		if got := domainOf(in); got != want {
			t.Errorf("domainOf(%q) = %q, want %q", in, got, want)
		}
	}
}
