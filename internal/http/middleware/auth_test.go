package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jakeb7757/evolve/internal/models"
	"github.com/jakeb7757/evolve/internal/service"
)

type fakeValidator struct {
	claims map[string]*service.Claims
}

func (f *fakeValidator) ValidateToken(token string) (*service.Claims, error) {
	claims, ok := f.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func identityProbe(got *Identity, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		*got, *found = identity, ok
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	tokens := &fakeValidator{claims: map[string]*service.Claims{
		"good": {UserID: 42, Role: models.RoleUser},
	}}

	var identity Identity
	var found bool
	handler := RequireAuth(tokens)(identityProbe(&identity, &found))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
	if !found || identity.UserID != 42 {
		t.Fatalf("expected identity user 42, got %+v found=%v", identity, found)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := &fakeValidator{claims: map[string]*service.Claims{
		"good": {UserID: 7, Role: models.RoleUser},
	}}

	var identity Identity
	var found bool
	handler := OptionalAuth(tokens)(identityProbe(&identity, &found))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected anonymous request to pass, got %d", rec.Code)
	}
	if found {
		t.Fatalf("expected no identity for anonymous request")
	}

	// A malformed token is rejected, never downgraded to anonymous.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !found || identity.UserID != 7 {
		t.Fatalf("expected identity user 7, got %+v code=%d", identity, rec.Code)
	}
}

func TestRequireStaff(t *testing.T) {
	var identity Identity
	var found bool
	handler := RequireStaff(identityProbe(&identity, &found))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: 1, Role: models.RoleUser}))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: 2, Role: models.RoleStaff}))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff, got %d", rec.Code)
	}
}
