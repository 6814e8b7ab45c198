package auth

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

// Login authenticates a user and issues an access token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
// Blocked accounts are rejected before the password compare so a blocked
// user always sees the same answer regardless of the password supplied.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if u.Blocked() {
		return LoginResult{}, domain.ErrAccountBlocked()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// Best effort: a failed timestamp update must not fail the login.
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.audit("auth.last_login_update_failed", map[string]string{
			"user_id": u.ID,
			"error":   err.Error(),
		})
	} else {
		u.LastLoginTime = &now
	}

	access, err := s.signer.SignAccessToken(u.ID, u.Email, s.accessTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	return LoginResult{
		User:      u,
		Token:     access,
		ExpiresIn: int64(s.accessTTL.Seconds()),
		TokenType: "Bearer",
	}, nil
}
