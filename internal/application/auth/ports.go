package auth

import (
	"context"
	"time"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// Updates needed by business flows
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// ConsumeVerification atomically activates the account and clears the
	// stored verification token. It must only match rows that are still
	// unverified, so a second consume (or a blocked account) fails.
	ConsumeVerification(ctx context.Context, email string) error

	// Directory + bulk admin actions
	List(ctx context.Context) ([]domain.User, error)
	SetStatusBulk(ctx context.Context, ids []string, status domain.Status) (int64, error)
	DeleteBulk(ctx context.Context, ids []string) (int64, error)
	DeleteUnverifiedBulk(ctx context.Context, ids []string) (int64, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens plus the signed email-verification
token embedded in the verification link.
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Email  string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, email string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)

	SignVerifyToken(email string, ttl time.Duration) (string, error)
	VerifyVerifyToken(token string) (email string, err error)
}

/*
EmailSender
-----------
Delivers the verification mail. Callers treat delivery as best-effort;
a failed send never rolls a registration back.
*/
type EmailSender interface {
	SendVerifyEmail(ctx context.Context, toEmail, url string) error
}
