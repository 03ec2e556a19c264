package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

// DefaultUserCacheTTL bounds how stale a cached profile may be.
const DefaultUserCacheTTL = 5 * time.Minute

const userCachePrefix = "cache:user:"

// cachedUser is the JSON form of a profile kept in Redis.
type cachedUser struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	Email        string      `json:"email"`
	Governorate  string      `json:"governorate"`
	Role         domain.Role `json:"role"`
	VehicleType  string      `json:"vehicle_type,omitempty"`
	LicensePlate string      `json:"license_plate,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}

func toCachedUser(u *domain.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		Name:         u.Name,
		Phone:        u.Phone,
		Email:        u.Email,
		Governorate:  u.Governorate,
		Role:         u.Role,
		VehicleType:  u.VehicleType,
		LicensePlate: u.LicensePlate,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

func (c cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Governorate:  c.Governorate,
		Role:         c.Role,
		VehicleType:  c.VehicleType,
		LicensePlate: c.LicensePlate,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}

// UserCache is a read-through Redis cache in front of a UserRepository.
// Redis failures degrade to reading the underlying repository.
type UserCache struct {
	client *redis.Client
	next   repository.UserRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewUserCache wraps next with a Redis profile cache.
func NewUserCache(client *redis.Client, next repository.UserRepository, ttl time.Duration, logger *zap.Logger) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &UserCache{client: client, next: next, ttl: ttl, logger: logger}
}

// GetByID returns the cached profile or loads and caches it.
func (c *UserCache) GetByID(ctx context.Context, id string) (*domain.User, error) {
	data, err := c.client.Get(ctx, userCachePrefix+id).Bytes()
	switch {
	case err == nil:
		var cached cachedUser
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.toDomain(), nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
	}

	user, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.setBatch(ctx, []*domain.User{user}); err != nil {
		c.logger.Warn("user cache write failed", zap.String("user_id", id), zap.Error(err))
	}
	return user, nil
}

// GetByIDs resolves hits with one pipelined read and loads the rest in one batch.
func (c *UserCache) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	if len(ids) == 0 {
		return make(map[string]*domain.User), nil
	}

	users, missing := c.getBatch(ctx, ids)
	if len(missing) == 0 {
		return users, nil
	}

	loaded, err := c.next.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	fresh := make([]*domain.User, 0, len(loaded))
	for id, u := range loaded {
		users[id] = u
		fresh = append(fresh, u)
	}
	if err := c.setBatch(ctx, fresh); err != nil {
		c.logger.Warn("user cache batch write failed", zap.Int("count", len(fresh)), zap.Error(err))
	}
	return users, nil
}

// Invalidate drops a cached profile.
func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, userCachePrefix+id).Err()
}

func (c *UserCache) getBatch(ctx context.Context, ids []string) (map[string]*domain.User, []string) {
	pipe := c.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(ids))
	for _, id := range ids {
		if _, seen := cmds[id]; seen {
			continue
		}
		cmds[id] = pipe.Get(ctx, userCachePrefix+id)
	}

	// Exec reports redis.Nil when any key is absent; per-command results are checked below.
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("user cache batch read failed", zap.Error(err))
	}

	users := make(map[string]*domain.User, len(cmds))
	var missing []string
	for id, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}
		var cached cachedUser
		if err := json.Unmarshal(data, &cached); err != nil {
			missing = append(missing, id)
			continue
		}
		users[id] = cached.toDomain()
	}
	return users, missing
}

func (c *UserCache) setBatch(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, u := range users {
		data, err := json.Marshal(toCachedUser(u))
		if err != nil {
			continue
		}
		pipe.Set(ctx, userCachePrefix+u.ID, data, c.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}
