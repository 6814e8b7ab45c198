package auth

import (
	"context"
	"strings"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

// VerifyEmail consumes a verification token: signature and expiry are
// checked first, then the matching unverified row is activated and its
// stored token cleared in one statement. A replayed token finds no
// unverified row and fails.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrMissingField("token")
	}

	email, err := s.signer.VerifyVerifyToken(token)
	if err != nil {
		return err
	}

	if err := s.users.ConsumeVerification(ctx, email); err != nil {
		s.audit("auth.verify_email_failed", map[string]string{"email": email})
		return err
	}

	s.audit("auth.email_verified", map[string]string{"email": email})
	return nil
}
