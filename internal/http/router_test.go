package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRouterMethodGuards(t *testing.T) {
	router := NewRouter(RouterDeps{
		Health: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		Logger: zap.NewNop(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for GET /health, got %d", rec.Code)
	}

	cases := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodPost, "/health", http.MethodGet},
		{http.MethodGet, "/api/auth/signup", http.MethodPost},
		{http.MethodDelete, "/api/stations", http.MethodGet},
		{http.MethodPost, "/api/admin/schema/vehicles", http.MethodGet},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != tc.allow {
			t.Fatalf("%s %s: expected Allow %s, got %s", tc.method, tc.path, tc.allow, got)
		}
	}
}
