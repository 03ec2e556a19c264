// Package events carries trip lifecycle events over watermill.
package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// PubSub is a publisher and subscriber pair sharing one transport.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Close closes both sides.
func (p PubSub) Close() error {
	pubErr := p.Publisher.Close()
	subErr := p.Subscriber.Close()
	if pubErr != nil {
		return pubErr
	}
	return subErr
}

// NewGoChannel returns an in-process transport. Events are lost on restart.
func NewGoChannel(logger watermill.LoggerAdapter) PubSub {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
	return PubSub{Publisher: ch, Subscriber: ch}
}

// NewRedisStream returns a Redis Streams transport. Subscribers join
// consumerGroup so each event is handled once per group.
func NewRedisStream(client redis.UniversalClient, consumerGroup string, logger watermill.LoggerAdapter) (PubSub, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		return PubSub{}, fmt.Errorf("create redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: consumerGroup,
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return PubSub{}, fmt.Errorf("create redis stream subscriber: %w", err)
	}

	return PubSub{Publisher: publisher, Subscriber: subscriber}, nil
}
