package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jakeb7757/evolve/internal/models"
	"github.com/jakeb7757/evolve/internal/service"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller extracted from a JWT.
type Identity struct {
	UserID int64
	Role   string
}

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := bearerIdentity(tokens, r)
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present
// and lets anonymous requests through. A malformed token is still a 401
// rather than silently downgrading to anonymous.
func OptionalAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
				next.ServeHTTP(w, r)
				return
			}
			identity, ok := bearerIdentity(tokens, r)
			if !ok {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireStaff rejects authenticated callers without the staff role.
// Must run inside RequireAuth.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if identity.Role != models.RoleStaff {
			http.Error(w, "staff access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerIdentity(tokens TokenValidator, r *http.Request) (Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Identity{}, false
	}
	claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, true
}

// WithIdentity attaches a caller identity to the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	val := ctx.Value(identityKey)
	if val == nil {
		return Identity{}, false
	}
	identity, ok := val.(Identity)
	return identity, ok
}
