package auth

import (
	"context"
	"time"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	mailer EmailSender

	accessTTL time.Duration
	verifyTTL time.Duration
	audit     func(action string, fields map[string]string)

	// Base URL for the verification link sent by email.
	// Must end with `token=` because the service appends the token.
	verifyBaseURL string

	emailTimeout time.Duration
}

type Config struct {
	AccessTokenTTL time.Duration
	VerifyTokenTTL time.Duration
	VerifyBaseURL  string
	EmailTimeout   time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	mailer EmailSender,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	verifyTTL := cfg.VerifyTokenTTL
	if verifyTTL <= 0 {
		verifyTTL = 24 * time.Hour
	}
	emailTimeout := cfg.EmailTimeout
	if emailTimeout <= 0 {
		emailTimeout = 10 * time.Second
	}
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		mailer: mailer,
		audit:  func(string, map[string]string) {},

		accessTTL:     accessTTL,
		verifyTTL:     verifyTTL,
		verifyBaseURL: cfg.VerifyBaseURL,
		emailTimeout:  emailTimeout,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type RegisterResult struct {
	User domain.User
}

type LoginResult struct {
	User  domain.User
	Token string
	// seconds
	ExpiresIn int64
	TokenType string // "Bearer"
}

// dispatchVerifyEmail sends the verification mail without blocking the
// request. Failures are audited only; registration already committed.
func (s *Service) dispatchVerifyEmail(email, token string) {
	url := s.verifyBaseURL + token
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.emailTimeout)
		defer cancel()

		if err := s.mailer.SendVerifyEmail(ctx, email, url); err != nil {
			s.audit("auth.verify_email_send_failed", map[string]string{
				"email": email,
				"error": err.Error(),
			})
			return
		}
		s.audit("auth.verify_email_sent", map[string]string{"email": email})
	}()
}
