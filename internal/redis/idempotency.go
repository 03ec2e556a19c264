package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyTTL is how long a stored response is replayed.
const IdempotencyTTL = 24 * time.Hour

const (
	idempotencyPrefix     = "idempotency:"
	idempotencyLockPrefix = "lock:idempotency:"
)

// StoredResponse is a response captured for an Idempotency-Key.
type StoredResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// IdempotencyStore keeps responses and in-flight locks keyed by
// Idempotency-Key.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: IdempotencyTTL}
}

// Get returns the stored response for key, or nil on a miss.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var resp StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Save stores resp for key.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp *StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyPrefix+key, data, s.ttl).Err()
}

// Acquire takes the in-flight lock for key.
// Returns false if another request holds it.
func (s *IdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, idempotencyLockPrefix+key, "1", ttl).Result()
}

// Release drops the in-flight lock for key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyLockPrefix+key).Err()
}
