package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tawseel/internal/config"
	"tawseel/internal/events"
)

// NewEventBus selects the trip event transport.
func NewEventBus(cfg config.EventsConfig, redisClient *redis.Client, logger *zap.Logger) (events.PubSub, error) {
	wmLogger := events.NewLoggerAdapter(logger)

	switch cfg.Backend {
	case config.EventsBackendRedis:
		if redisClient == nil {
			return events.PubSub{}, fmt.Errorf("redis event backend needs a redis client")
		}
		return events.NewRedisStream(redisClient, cfg.ConsumerGroup, wmLogger)
	case config.EventsBackendMemory, "":
		return events.NewGoChannel(wmLogger), nil
	default:
		return events.PubSub{}, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
