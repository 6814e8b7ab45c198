package email

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRenderBasicHTML_EscapesAndLinks(t *testing.T) {
	t.Parallel()

	link := "http://localhost:5000/verify-email?token=a&b=<script>"
	out := renderBasicHTML("Verify your email", "Click below.", "Verify email", link)

	if strings.Contains(out, "<script>") {
		t.Fatalf("link not escaped: %s", out)
	}
	if !strings.Contains(out, "http://localhost:5000/verify-email?token=a&amp;b=") {
		t.Fatalf("escaped link missing: %s", out)
	}
	if !strings.Contains(out, "Verify your email") {
		t.Fatalf("title missing")
	}
}

func TestSMTPSender_InvalidAddressesArePermanent(t *testing.T) {
	t.Parallel()

	s := NewSMTPSender(SMTPConfig{
		Host: "localhost",
		Port: 2525,
		From: "not-an-address",
	}, zerolog.Nop())

	err := s.SendVerifyEmail(context.Background(), "to@example.com", "http://x/verify")
	if err == nil {
		t.Fatalf("expected error for invalid from address")
	}
	var per interface{ Permanent() bool }
	if !asPermanence(err, &per) || !per.Permanent() {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestFakeSender_Records(t *testing.T) {
	t.Parallel()

	f := NewFakeSender(zerolog.Nop())
	if err := f.SendVerifyEmail(context.Background(), "a@b.c", "http://x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.SentCount() != 1 || f.Sent[0].To != "a@b.c" {
		t.Fatalf("sent = %+v", f.Sent)
	}
}

func asPermanence(err error, target *interface{ Permanent() bool }) bool {
	p, ok := err.(interface{ Permanent() bool })
	if ok {
		*target = p
	}
	return ok
}
