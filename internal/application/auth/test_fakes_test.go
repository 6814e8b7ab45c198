package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditLog struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditLog) record(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditLog) byAction(action string) (auditEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		if e.action == action {
			return e, true
		}
	}
	return auditEntry{}, false
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	lastLoginErr  error
	consumeErr    error
	listErr       error
	bulkErr       error

	// record calls
	lastLoginIDs []string
	consumed     []string
	bulkCalls    []struct {
		kind   string
		ids    []string
		status domain.Status
	}
	bulkAffected int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.LastLoginTime = &at
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.lastLoginIDs = append(f.lastLoginIDs, userID)
	return nil
}

func (f *fakeUserRepo) ConsumeVerification(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.consumeErr != nil {
		return f.consumeErr
	}
	u, ok := f.byEmail[email]
	if !ok || u.Status != domain.StatusUnverified {
		return domain.ErrVerificationNotFound()
	}
	u.Status = domain.StatusActive
	u.VerificationToken = nil
	f.byID[u.ID] = u
	f.byEmail[email] = u
	f.consumed = append(f.consumed, email)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) SetStatusBulk(ctx context.Context, ids []string, status domain.Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	f.bulkCalls = append(f.bulkCalls, struct {
		kind   string
		ids    []string
		status domain.Status
	}{kind: "set_status", ids: ids, status: status})

	var n int64
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			u.Status = status
			f.byID[id] = u
			f.byEmail[u.Email] = u
			n++
		}
	}
	if f.bulkAffected > 0 {
		return f.bulkAffected, nil
	}
	return n, nil
}

func (f *fakeUserRepo) DeleteBulk(ctx context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	f.bulkCalls = append(f.bulkCalls, struct {
		kind   string
		ids    []string
		status domain.Status
	}{kind: "delete", ids: ids})

	var n int64
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			delete(f.byID, id)
			delete(f.byEmail, u.Email)
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) DeleteUnverifiedBulk(ctx context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	f.bulkCalls = append(f.bulkCalls, struct {
		kind   string
		ids    []string
		status domain.Status
	}{kind: "delete_unverified", ids: ids})

	var n int64
	for _, id := range ids {
		u, ok := f.byID[id]
		if !ok || u.Status != domain.StatusUnverified {
			continue
		}
		delete(f.byID, id)
		delete(f.byEmail, u.Email)
		n++
	}
	return n, nil
}

type fakeHasher struct {
	hashErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	signAccessErr error
	signVerifyErr error
}

func (f *fakeSigner) SignAccessToken(userID, email string, ttl time.Duration) (string, error) {
	if f.signAccessErr != nil {
		return "", f.signAccessErr
	}
	return fmt.Sprintf("access:%s:%s", userID, email), nil
}

func (f *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "access" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: parts[1], Email: parts[2]}, nil
}

func (f *fakeSigner) SignVerifyToken(email string, ttl time.Duration) (string, error) {
	if f.signVerifyErr != nil {
		return "", f.signVerifyErr
	}
	return "verify:" + email, nil
}

func (f *fakeSigner) VerifyVerifyToken(token string) (string, error) {
	email, ok := strings.CutPrefix(token, "verify:")
	if !ok || email == "" {
		return "", domain.ErrTokenInvalid()
	}
	return email, nil
}

// fakeSender records sends and signals each one on a channel so tests
// can wait for the fire-and-forget goroutine.
type fakeSender struct {
	mu      sync.Mutex
	sent    []struct{ to, url string }
	sendErr error
	done    chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{done: make(chan struct{}, 8)}
}

func (f *fakeSender) SendVerifyEmail(ctx context.Context, toEmail, url string) error {
	f.mu.Lock()
	f.sent = append(f.sent, struct{ to, url string }{to: toEmail, url: url})
	err := f.sendErr
	f.mu.Unlock()

	f.done <- struct{}{}
	return err
}

func (f *fakeSender) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for email dispatch")
	}
}

func (f *fakeSender) last(t *testing.T) struct{ to, url string } {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatalf("no email was sent")
	}
	return f.sent[len(f.sent)-1]
}

/*
Service factory + assertion helpers
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeSigner, *fakeSender, *auditLog) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	signer := &fakeSigner{}
	sender := newFakeSender()
	audits := &auditLog{}

	svc := NewService(users, hasher, signer, sender, Config{
		AccessTokenTTL: time.Hour,
		VerifyTokenTTL: 24 * time.Hour,
		VerifyBaseURL:  "http://localhost:5000/verify-email?token=",
	}).WithAudit(audits.record)

	return svc, users, hasher, signer, sender, audits
}

func domainCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func requireDomainCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %T: %v", err, err)
	}
	if de.Code != wantCode {
		t.Fatalf("domain code = %q, want %q (err: %v)", de.Code, wantCode, err)
	}
}

func requireAuditAction(t *testing.T, audits *auditLog, action string) auditEntry {
	t.Helper()
	e, ok := audits.byAction(action)
	if !ok {
		t.Fatalf("audit entry %q not recorded", action)
	}
	return e
}
