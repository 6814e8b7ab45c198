package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// FakeSender is a development sender. It logs the verification link
// instead of delivering it, so dev setups work without an SMTP server.
type FakeSender struct {
	lg zerolog.Logger

	mu   sync.Mutex
	Sent []SentMail
}

type SentMail struct {
	To  string
	URL string
}

func NewFakeSender(lg zerolog.Logger) *FakeSender {
	return &FakeSender{
		lg: lg.With().Str("component", "fake_sender").Logger(),
	}
}

func (s *FakeSender) SendVerifyEmail(ctx context.Context, toEmail, url string) error {
	s.lg.Info().
		Str("to", toEmail).
		Str("url", url).
		Msg("FAKE send verify email")

	s.mu.Lock()
	s.Sent = append(s.Sent, SentMail{To: toEmail, URL: url})
	s.mu.Unlock()
	return nil
}

func (s *FakeSender) SentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}
