package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/user-mgmt-service/internal/application/auth"
	"github.com/baechuer/user-mgmt-service/internal/domain"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.TokenClaims, error)
}

// UserGetter is the minimal interface the middleware needs to confirm
// the token's user still exists and is not blocked.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <access_token>, re-checks the user
// against the store, and injects identity into the request context.
// Ladder: missing token 401, bad token 401, deleted user 401, blocked 403.
func Auth(verifier TokenVerifier, users UserGetter, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			// The token may outlive its user: a bulk delete or block must
			// bite on the very next request.
			u, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if domain.Is(err, "user_not_found") {
					writeErr(w, r, domain.ErrTokenUserNotFound())
					return
				}
				writeErr(w, r, err)
				return
			}
			if u.Blocked() {
				writeErr(w, r, domain.ErrAccountBlocked())
				return
			}

			ctx := WithUser(r.Context(), u.ID, u.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
