package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tawseel/internal/domain"
)

func TestNotifications(t *testing.T) {
	t.Parallel()

	base := domain.TripEvent{TripID: "t1", PassengerID: "p1", From: "Maadi", To: "Dokki"}
	with := func(typ domain.TripEventType, mutate func(e *domain.TripEvent)) domain.TripEvent {
		e := base
		e.Type = typ
		if mutate != nil {
			mutate(&e)
		}
		return e
	}

	testCases := []struct {
		name       string
		event      domain.TripEvent
		recipients []string
	}{
		{name: "requested goes to drivers", event: with(domain.TripEventRequested, nil), recipients: []string{RecipientDrivers}},
		{name: "accepted goes to passenger", event: with(domain.TripEventAccepted, func(e *domain.TripEvent) { e.DriverID = "d1" }), recipients: []string{"p1"}},
		{name: "completed goes to both sides", event: with(domain.TripEventCompleted, func(e *domain.TripEvent) { e.DriverID = "d1" }), recipients: []string{"p1", "d1"}},
		{name: "completed without driver", event: with(domain.TripEventCompleted, nil), recipients: []string{"p1"}},
		{name: "cancelled withdraws the request", event: with(domain.TripEventCancelled, nil), recipients: []string{RecipientDrivers}},
		{name: "passenger rates driver", event: with(domain.TripEventRated, func(e *domain.TripEvent) {
			e.DriverID, e.RaterRole, e.Score = "d1", domain.RaterPassenger, 5
		}), recipients: []string{"d1"}},
		{name: "driver rates passenger", event: with(domain.TripEventRated, func(e *domain.TripEvent) {
			e.DriverID, e.RaterRole, e.Score = "d1", domain.RaterDriver, 4
		}), recipients: []string{"p1"}},
		{name: "rating an unassigned driver", event: with(domain.TripEventRated, func(e *domain.TripEvent) {
			e.RaterRole, e.Score = domain.RaterPassenger, 2
		}), recipients: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var recipients []string
			for _, n := range Notifications(tc.event) {
				assert.Equal(t, "t1", n.TripID)
				assert.NotEmpty(t, n.Title)
				recipients = append(recipients, n.RecipientID)
			}
			assert.Equal(t, tc.recipients, recipients)
		})
	}
}

func TestPublisherAndNotifier_OverGoChannel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ps := NewGoChannel(watermill.NopLogger{})
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := NewNotifier(ps.Subscriber, logger)
	done := make(chan error, 1)
	go func() { done <- notifier.Run(ctx) }()

	// Subscriptions are registered asynchronously; retry until the notifier sees the event.
	publisher := NewPublisher(ps.Publisher)
	event := domain.TripEvent{
		Type:        domain.TripEventAccepted,
		TripID:      "t1",
		PassengerID: "p1",
		DriverID:    "d1",
		Status:      domain.TripStatusAccepted,
		At:          time.Now().UTC(),
	}
	require.Eventually(t, func() bool {
		if err := publisher.Publish(ctx, event); err != nil {
			return false
		}
		return logs.FilterMessage("notification").FilterField(zap.String("recipient", "p1")).Len() > 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, ps.Close())
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier did not stop")
	}
}

func TestNotifier_AcksMalformedPayload(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	n := NewNotifier(nil, zap.New(core))

	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	n.handle(msg)

	select {
	case <-msg.Acked():
	default:
		t.Fatal("malformed message was not acked")
	}
	assert.Equal(t, 1, logs.FilterMessage("discarding malformed trip event").Len())
}

func TestPublisher_PayloadIsTripEvent(t *testing.T) {
	t.Parallel()

	ps := NewGoChannel(watermill.NopLogger{})
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := ps.Subscriber.Subscribe(ctx, string(domain.TripEventRequested))
	require.NoError(t, err)

	trip := &domain.Trip{ID: "t9", PassengerID: "p1", CurrentLocation: "Maadi", Destination: "Dokki", Status: domain.TripStatusPending}
	require.NoError(t, NewPublisher(ps.Publisher).Publish(ctx, domain.NewTripEvent(domain.TripEventRequested, trip, time.Now())))

	select {
	case msg := <-messages:
		var got domain.TripEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "t9", got.TripID)
		assert.Equal(t, "Maadi", got.From)
		assert.Equal(t, "t9", msg.Metadata.Get("trip_id"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}
