package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedResponse is a rendered HTTP response held for the cache TTL.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ListingStore caches station listing responses in redis with a fixed TTL.
// Entries expire naturally; a fresh status submission is not visible in a
// cached listing until expiry.
type ListingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingStore returns a redis-backed store.
func NewListingStore(client *redis.Client, ttl time.Duration) *ListingStore {
	return &ListingStore{client: client, ttl: ttl}
}

func (s *ListingStore) key(k string) string {
	return fmt.Sprintf("stations:listing:%s", k)
}

// Get returns a cached response or nil when the key is absent.
func (s *ListingStore) Get(ctx context.Context, key string) (*CachedResponse, error) {
	result, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var resp CachedResponse
	if err := json.Unmarshal([]byte(result), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Set caches a response for the configured TTL.
func (s *ListingStore) Set(ctx context.Context, key string, resp CachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), data, s.ttl).Err()
}
