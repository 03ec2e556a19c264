package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tawseel/internal/redis"
)

const (
	idempotencyHeader  = "Idempotency-Key"
	idempotencyLockTTL = 30 * time.Second
)

// IdempotencyStore persists responses by Idempotency-Key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*redis.StoredResponse, error)
	Save(ctx context.Context, key string, resp *redis.StoredResponse) error
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response of a mutating request
// that repeats an Idempotency-Key. The key is scoped to the caller when
// one is known.
func IdempotencyMiddleware(store IdempotencyStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to mutating methods.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		key = scopedKey(c, key)
		ctx := c.Request.Context()

		cached, err := store.Get(ctx, key)
		if err != nil {
			// Store unavailable: proceed without idempotency.
			logger.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if cached != nil {
			replay(c, cached)
			return
		}

		acquired, err := store.Acquire(ctx, key, idempotencyLockTTL)
		if err != nil {
			logger.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"msg": "A request with this Idempotency-Key is already in progress"})
			return
		}
		defer func() {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				logger.Warn("idempotency unlock failed", zap.Error(err))
			}
		}()

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Server errors are not stored so the client can retry.
		if status := c.Writer.Status(); status >= 200 && status < 500 {
			resp := &redis.StoredResponse{
				StatusCode: status,
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			if err := store.Save(context.WithoutCancel(ctx), key, resp); err != nil {
				logger.Warn("idempotency save failed", zap.Error(err))
			}
		}
	}
}

func scopedKey(c *gin.Context, key string) string {
	// The middleware runs after auth on /api routes, so the identity is set there.
	if id, ok := authIdentity(c); ok {
		return id + ":" + key
	}
	return key
}

func replay(c *gin.Context, cached *redis.StoredResponse) {
	for k, v := range cached.Headers {
		for _, val := range v {
			c.Header(k, val)
		}
	}
	c.Header("Idempotent-Replayed", "true")
	c.Data(cached.StatusCode, "application/json; charset=utf-8", cached.Body)
	c.Abort()
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
