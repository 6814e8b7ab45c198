package auth

import (
	"context"
	"testing"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

func seedUser(users *fakeUserRepo, id, email, password string, status domain.Status) {
	users.put(domain.User{
		ID:           id,
		Name:         "Seeded",
		Email:        email,
		PasswordHash: "hashed:" + password,
		Status:       status,
	})
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "u1@example.com", "pw123456", domain.StatusActive)

	res, err := svc.Login(context.Background(), "u1@example.com", "pw123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token == "" || res.TokenType != "Bearer" {
		t.Fatalf("bad token result: %+v", res)
	}
	if res.User.LastLoginTime == nil {
		t.Fatalf("last login time not set on result")
	}
	if len(users.lastLoginIDs) != 1 || users.lastLoginIDs[0] != "u1" {
		t.Fatalf("last login not recorded: %v", users.lastLoginIDs)
	}
}

func TestLogin_UnverifiedUserMayLogIn(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	seedUser(users, "u2", "u2@example.com", "pw123456", domain.StatusUnverified)

	res, err := svc.Login(context.Background(), "u2@example.com", "pw123456")
	if err != nil {
		t.Fatalf("unverified login must succeed: %v", err)
	}
	if res.User.Status != domain.StatusUnverified {
		t.Fatalf("status = %q", res.User.Status)
	}
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	seedUser(users, "u3", "u3@example.com", "right-pw", domain.StatusActive)

	_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, errWrongPw := svc.Login(context.Background(), "u3@example.com", "wrong-pw")

	requireDomainCode(t, errUnknown, "invalid_credentials")
	requireDomainCode(t, errWrongPw, "invalid_credentials")
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("enumeration leak: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLogin_BlockedBeforePasswordCheck(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	seedUser(users, "u4", "u4@example.com", "pw123456", domain.StatusBlocked)

	// Correct and wrong password both surface the block.
	_, err := svc.Login(context.Background(), "u4@example.com", "pw123456")
	requireDomainCode(t, err, "account_blocked")

	_, err = svc.Login(context.Background(), "u4@example.com", "nope")
	requireDomainCode(t, err, "account_blocked")
}

func TestLogin_EmptyInputs(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "", "pw")
	requireDomainCode(t, err, "invalid_credentials")

	_, err = svc.Login(context.Background(), "a@b.c", "")
	requireDomainCode(t, err, "invalid_credentials")
}

func TestLogin_LastLoginFailureIsBestEffort(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, audits := newSvcForTest(t)
	seedUser(users, "u5", "u5@example.com", "pw123456", domain.StatusActive)
	users.lastLoginErr = domain.ErrDBUnavailable(nil)

	res, err := svc.Login(context.Background(), "u5@example.com", "pw123456")
	if err != nil {
		t.Fatalf("login must survive last-login failure: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("token missing")
	}
	requireAuditAction(t, audits, "auth.last_login_update_failed")
}
