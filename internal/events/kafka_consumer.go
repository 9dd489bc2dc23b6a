package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Hospitality/service-reservation/internal/application"
	"github.com/Kilat-Hospitality/service-reservation/pkg/kafka"
)

// AvailabilityUpdater recomputes a room's availability from the ledger.
type AvailabilityUpdater interface {
	LedgerAvailability(ctx context.Context, roomID int64) (bool, error)
	UpdateRoomAvailability(ctx context.Context, roomID int64, requested bool) (bool, error)
}

// RoomEventConsumer listens to room registry events and re-derives the
// room's availability flag whenever someone else changes it.
type RoomEventConsumer struct {
	consumer *kafka.Consumer
	service  AvailabilityUpdater
	logger   *zap.Logger
}

// NewRoomEventConsumer creates a new RoomEventConsumer.
func NewRoomEventConsumer(
	brokers []string,
	groupID string,
	service AvailabilityUpdater,
	logger *zap.Logger,
) *RoomEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicRoomEvents, logger)
	return &RoomEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming room events. This blocks until the context is cancelled.
func (c *RoomEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RoomEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RoomEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from room topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case application.RoomAvailabilityChanged, application.RoomUpdated:
		return c.handleRoomChanged(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled room event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *RoomEventConsumer) handleRoomChanged(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.RoomChangedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.RoomID <= 0 {
		c.logger.Error("invalid room event data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	requested := true
	if evt.Available != nil {
		requested = *evt.Available

		// The registry announces our own pushes too; a flag that already
		// matches the ledger needs no push back.
		derived, err := c.service.LedgerAvailability(ctx, evt.RoomID)
		if err != nil {
			c.logger.Error("failed to read ledger availability",
				zap.Int64("room_id", evt.RoomID),
				zap.Error(err),
			)
			return err
		}
		if derived == requested {
			c.logger.Debug("room availability already matches ledger",
				zap.Int64("room_id", evt.RoomID),
				zap.Bool("available", derived),
			)
			return nil
		}
	}

	available, err := c.service.UpdateRoomAvailability(ctx, evt.RoomID, requested)
	if err != nil {
		c.logger.Error("failed to reconcile room after registry event",
			zap.Int64("room_id", evt.RoomID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("room availability reconciled after registry event",
		zap.Int64("room_id", evt.RoomID),
		zap.String("type", cloudEvent.Type),
		zap.Bool("available", available),
	)
	return nil
}
