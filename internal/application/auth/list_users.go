package auth

import (
	"context"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

// ListUsers returns every account ordered by most recent login.
// Sensitive columns (password hash, verification token) are dropped at
// the transport layer; the repo already orders never-logged-in users last.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
