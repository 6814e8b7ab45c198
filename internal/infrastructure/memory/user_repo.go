package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

// UserRepo is an in-memory implementation of the user store, used in dev
// when no database address is configured and by transport-level tests.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.LastLoginTime = &at
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) ConsumeVerification(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.ErrVerificationNotFound()
	}
	u := r.byID[id]
	if u.Status != domain.StatusUnverified {
		return domain.ErrVerificationNotFound()
	}
	u.Status = domain.StatusActive
	u.VerificationToken = nil
	r.byID[id] = u
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}

	// Most recent login first, never-logged-in last.
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := out[i].LastLoginTime, out[j].LastLoginTime
		switch {
		case li == nil && lj == nil:
			return out[i].RegistrationDate.After(out[j].RegistrationDate)
		case li == nil:
			return false
		case lj == nil:
			return true
		default:
			return li.After(*lj)
		}
	})
	return out, nil
}

func (r *UserRepo) SetStatusBulk(ctx context.Context, ids []string, status domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			u.Status = status
			r.byID[id] = u
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) DeleteBulk(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			delete(r.byID, id)
			delete(r.byEmail, u.Email)
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) DeleteUnverifiedBulk(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		u, ok := r.byID[id]
		if !ok || u.Status != domain.StatusUnverified {
			continue
		}
		delete(r.byID, id)
		delete(r.byEmail, u.Email)
		n++
	}
	return n, nil
}
