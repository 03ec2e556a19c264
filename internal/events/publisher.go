package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"tawseel/internal/domain"
)

// Publisher publishes trip events, one topic per event type.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher creates a Publisher on top of a watermill publisher.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// Publish sends event to the topic named after its type.
func (p *Publisher) Publish(ctx context.Context, event domain.TripEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("trip_id", event.TripID)

	if err := p.pub.Publish(string(event.Type), msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}
