package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/cache"
)

const sessionCookieName = "evolve_session"

// ResponseStore is the cache backend contract. Get returns (nil, nil)
// on a miss.
type ResponseStore interface {
	Get(ctx context.Context, key string) (*cache.CachedResponse, error)
	Set(ctx context.Context, key string, resp cache.CachedResponse) error
}

// KeyFunc derives the cache key for a request.
type KeyFunc func(r *http.Request) string

// ListingKey keys a cached listing by path, sorted query and caller
// session: the authenticated user id when present, otherwise the
// anonymous session cookie. Responses are therefore cached per session
// for the store's TTL; a fresh status submission may not appear until
// the entry expires. Accepted staleness, not a correctness bug.
func ListingKey(r *http.Request) string {
	session := "anon"
	if identity, ok := IdentityFromContext(r.Context()); ok {
		session = "user:" + strconv.FormatInt(identity.UserID, 10)
	} else if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		session = "sess:" + c.Value
	}

	query := r.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(r.URL.Path)
	for _, k := range keys {
		sb.WriteByte('&')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(strings.Join(query[k], ","))
	}
	sb.WriteByte('|')
	sb.WriteString(session)
	return sb.String()
}

// SessionCookie ensures an anonymous session cookie exists so cached
// listings are keyed per visitor.
func SessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookieName); err != nil {
			cookie := &http.Cookie{
				Name:     sessionCookieName,
				Value:    uuid.NewString(),
				Path:     "/",
				HttpOnly: true,
			}
			http.SetCookie(w, cookie)
			r.AddCookie(cookie)
		}
		next.ServeHTTP(w, r)
	})
}

// ResponseCache serves successful GET responses from the store for its
// TTL. Store failures are logged and bypassed: caching never breaks the
// request path.
func ResponseCache(store ResponseStore, key KeyFunc, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			cacheKey := key(r)
			if cached, err := store.Get(r.Context(), cacheKey); err != nil {
				logger.Warn("cache read failed", zap.Error(err))
			} else if cached != nil {
				w.Header().Set("Content-Type", cached.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(cached.Status)
				w.Write(cached.Body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				err := store.Set(r.Context(), cacheKey, cache.CachedResponse{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
				if err != nil {
					logger.Warn("cache write failed", zap.Error(err))
				}
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
