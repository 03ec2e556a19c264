package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"tawseel/internal/domain"
)

// RecipientDrivers addresses every driver looking for work.
const RecipientDrivers = "drivers"

// Notification is a message one party of a trip should receive.
type Notification struct {
	Type        domain.TripEventType
	RecipientID string
	Title       string
	Message     string
	TripID      string
}

// Notifications derives the notifications an event produces.
func Notifications(event domain.TripEvent) []Notification {
	n := func(recipient, title, msg string) Notification {
		return Notification{Type: event.Type, RecipientID: recipient, Title: title, Message: msg, TripID: event.TripID}
	}

	switch event.Type {
	case domain.TripEventRequested:
		return []Notification{
			n(RecipientDrivers, "New Trip Request", fmt.Sprintf("Passenger waiting at %s heading to %s", event.From, event.To)),
		}
	case domain.TripEventAccepted:
		return []Notification{
			n(event.PassengerID, "Driver Assigned", "A driver accepted your trip and is on the way"),
		}
	case domain.TripEventCompleted:
		out := []Notification{
			n(event.PassengerID, "Trip Completed", fmt.Sprintf("You arrived at %s. Rate your driver", event.To)),
		}
		if event.DriverID != "" {
			out = append(out, n(event.DriverID, "Trip Completed", "Trip closed. Rate your passenger"))
		}
		return out
	case domain.TripEventCancelled:
		out := []Notification{
			n(RecipientDrivers, "Trip Request Withdrawn", fmt.Sprintf("The request from %s is no longer available", event.From)),
		}
		if event.DriverID != "" {
			out = append(out, n(event.DriverID, "Trip Cancelled", "The passenger cancelled the trip"))
		}
		return out
	case domain.TripEventRated:
		switch event.RaterRole {
		case domain.RaterPassenger:
			if event.DriverID == "" {
				return nil
			}
			return []Notification{n(event.DriverID, "New Rating", fmt.Sprintf("Your passenger rated you %d/5", event.Score))}
		case domain.RaterDriver:
			return []Notification{n(event.PassengerID, "New Rating", fmt.Sprintf("Your driver rated you %d/5", event.Score))}
		}
	}
	return nil
}

// Notifier consumes trip events and delivers notifications.
// Delivery is a structured log line; push channels are out of scope.
type Notifier struct {
	sub    message.Subscriber
	logger *zap.Logger
}

// NewNotifier creates a Notifier reading from sub.
func NewNotifier(sub message.Subscriber, logger *zap.Logger) *Notifier {
	return &Notifier{sub: sub, logger: logger.Named("notifier")}
}

// Run subscribes to every trip topic and blocks until ctx is done.
func (n *Notifier) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, topic := range domain.AllTripEventTypes {
		messages, err := n.sub.Subscribe(ctx, string(topic))
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		wg.Add(1)
		go func(messages <-chan *message.Message) {
			defer wg.Done()
			for msg := range messages {
				n.handle(msg)
			}
		}(messages)
	}

	wg.Wait()
	return ctx.Err()
}

func (n *Notifier) handle(msg *message.Message) {
	var event domain.TripEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		// Redelivery cannot fix a malformed payload.
		n.logger.Error("discarding malformed trip event", zap.String("message_uuid", msg.UUID), zap.Error(err))
		msg.Ack()
		return
	}

	for _, notification := range Notifications(event) {
		n.logger.Info("notification",
			zap.String("type", string(notification.Type)),
			zap.String("recipient", notification.RecipientID),
			zap.String("title", notification.Title),
			zap.String("message", notification.Message),
			zap.String("trip_id", notification.TripID),
		)
	}
	msg.Ack()
}
