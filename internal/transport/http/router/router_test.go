package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubHealth struct{}

func (stubHealth) Healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (stubHealth) Readyz(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(http.StatusOK) }

type stubAuth struct{ hit string }

func (s *stubAuth) Register(w http.ResponseWriter, r *http.Request)    { s.hit = "register" }
func (s *stubAuth) Login(w http.ResponseWriter, r *http.Request)       { s.hit = "login" }
func (s *stubAuth) VerifyEmail(w http.ResponseWriter, r *http.Request) { s.hit = "verify" }

type stubUsers struct{ hit string }

func (s *stubUsers) List(w http.ResponseWriter, r *http.Request)       { s.hit = "list" }
func (s *stubUsers) BulkAction(w http.ResponseWriter, r *http.Request) { s.hit = "bulk" }

func passMW(next http.Handler) http.Handler { return next }

func fullDeps() (Deps, *stubAuth, *stubUsers) {
	a := &stubAuth{}
	u := &stubUsers{}
	return Deps{
		Health:      stubHealth{},
		Auth:        a,
		Users:       u,
		RequestIDMW: passMW,
		AuthMW:      passMW,
	}, a, u
}

func TestNew_RejectsMissingDeps(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Deps){
		"health":  func(d *Deps) { d.Health = nil },
		"auth":    func(d *Deps) { d.Auth = nil },
		"users":   func(d *Deps) { d.Users = nil },
		"auth mw": func(d *Deps) { d.AuthMW = nil },
	}
	for name, clear := range cases {
		name, clear := name, clear
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			deps, _, _ := fullDeps()
			clear(&deps)
			if _, err := New(deps); err == nil {
				t.Fatalf("expected error for missing %s", name)
			}
		})
	}
}

func TestNew_RequestIDOptional(t *testing.T) {
	t.Parallel()

	deps, _, _ := fullDeps()
	deps.RequestIDMW = nil
	if _, err := New(deps); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	deps, a, u := fullDeps()
	h, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		method, path string
		want         func() string
	}{
		{http.MethodPost, "/register", func() string { return a.hit }},
		{http.MethodPost, "/login", func() string { return a.hit }},
		{http.MethodGet, "/verify-email", func() string { return a.hit }},
		{http.MethodGet, "/users", func() string { return u.hit }},
		{http.MethodPost, "/bulk-action", func() string { return u.hit }},
	}
	wants := []string{"register", "login", "verify", "list", "bulk"}

	for i, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if got := tc.want(); got != wants[i] {
			t.Fatalf("%s %s routed to %q, want %q", tc.method, tc.path, got, wants[i])
		}
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	deps, _, _ := fullDeps()
	h, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
