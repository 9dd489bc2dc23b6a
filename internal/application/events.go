package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
	"github.com/Kilat-Hospitality/service-reservation/pkg/kafka"
)

// Topics and CloudEvent types produced and consumed by this service.
const (
	TopicReservationEvents = "reservation.events"
	TopicRoomEvents        = "room.events"

	ReservationCreated         = "reservation.created"
	ReservationCancelled       = "reservation.cancelled"
	RoomAvailabilityReconciled = "room.availability.reconciled"
	RoomAvailabilityPushFailed = "room.availability.push_failed"

	RoomAvailabilityChanged = "room.availability.changed"
	RoomUpdated             = "room.updated"

	eventSource = "service-reservation"
)

// EventPublisher publishes CloudEvents. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error { return nil }

// ReservationCreatedEvent is published after a reservation is stored.
type ReservationCreatedEvent struct {
	ReservationID uuid.UUID        `json:"reservationId"`
	Code          string           `json:"code"`
	GuestID       int64            `json:"guestId"`
	RoomID        int64            `json:"roomId"`
	CheckInDate   reservation.Date `json:"checkInDate"`
	CheckOutDate  reservation.Date `json:"checkOutDate"`
	Nights        int              `json:"numberOfNights"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

// ReservationCancelledEvent is published after a reservation is deleted.
type ReservationCancelledEvent struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Code          string    `json:"code"`
	RoomID        int64     `json:"roomId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// RoomAvailabilityReconciledEvent reports the flag derived from the ledger.
type RoomAvailabilityReconciledEvent struct {
	RoomID     int64     `json:"roomId"`
	Available  bool      `json:"available"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AvailabilityPushFailedEvent reports a swallowed registry failure.
type AvailabilityPushFailedEvent struct {
	RoomID     int64     `json:"roomId"`
	Available  bool      `json:"available"`
	Operation  string    `json:"operation"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RoomChangedEvent is the payload read from room.events.
type RoomChangedEvent struct {
	RoomID    int64 `json:"roomId"`
	Available *bool `json:"available,omitempty"`
}

// publishEvent is best-effort; failures are logged only.
func publishEvent(ctx context.Context, p EventPublisher, logger *zap.Logger, eventType, subject string, data any) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Warn("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.PublishEvent(ctx, TopicReservationEvents, cloudEvent.WithSubject(subject)); err != nil {
		logger.Warn("failed to publish event",
			zap.String("topic", TopicReservationEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
