package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/internal/middleware"
)

func TestActor_ParsesHeaders(t *testing.T) {
	t.Parallel()

	var got domain.Actor
	h := middleware.Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-User-Role", "volunteer")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.ID != "u-1" || got.Role != domain.RoleVolunteer {
		t.Fatalf("actor not parsed: %+v", got)
	}
}

func TestActor_UnknownRoleDefaultsToReporter(t *testing.T) {
	t.Parallel()

	var got domain.Actor
	h := middleware.Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-User-Role", "superuser")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.Role != domain.RoleReporter {
		t.Fatalf("unknown role must default to reporter, got %q", got.Role)
	}
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.Actor(middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/report", nil))

	if called {
		t.Fatalf("handler must not run for anonymous requests")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestRequireUser_PassesAuthenticated(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.Actor(middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	req.Header.Set("X-User-ID", "u-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if !called || rr.Code != http.StatusOK {
		t.Fatalf("authenticated request must pass, called=%v code=%d", called, rr.Code)
	}
}
