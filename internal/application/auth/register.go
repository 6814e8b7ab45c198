package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Designation string
}

// Register creates an unverified account and dispatches the verification
// mail. The account is usable for login immediately; only verification
// flips it to active.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" {
		return RegisterResult{}, domain.ErrMissingField("name")
	}
	if in.Email == "" {
		return RegisterResult{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return RegisterResult{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	verifyTok, err := s.signer.SignVerifyToken(in.Email, s.verifyTTL)
	if err != nil {
		return RegisterResult{}, err
	}

	u := domain.User{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Email:             in.Email,
		PasswordHash:      hash,
		Designation:       strings.TrimSpace(in.Designation),
		Status:            domain.StatusUnverified,
		RegistrationDate:  time.Now().UTC(),
		VerificationToken: &verifyTok,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	s.dispatchVerifyEmail(created.Email, verifyTok)

	return RegisterResult{User: created}, nil
}
