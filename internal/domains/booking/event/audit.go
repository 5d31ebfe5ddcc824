// Package event consumes the booking topic and writes an audit trail.
package event

import (
	"context"
	"fmt"
	"travelnest/infras/kafka"
	"travelnest/infras/otel"
	"travelnest/internal/domains/booking/model"
	"travelnest/shared/constant"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Auditor struct {
	otel   otel.Otel
	logger zerolog.Logger
}

func NewAuditor(otel otel.Otel, logger zerolog.Logger) *Auditor {
	return &Auditor{
		otel:   otel,
		logger: logger.With().Str("component", "booking-audit").Logger(),
	}
}

// Handle records one booking event. Unknown event types are logged at warn level.
func (a *Auditor) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	_, scope := a.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Audit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[model.Event](message)
	if err != nil {
		return fmt.Errorf("failed to decode booking event at offset %d: %w", message.Offset, err)
	}

	if event.BookingID == 0 || event.Type == "" {
		return fmt.Errorf("booking event at offset %d is missing type or booking id", message.Offset)
	}

	entry := a.logger.Info()
	if event.Type != model.EventBookingCreated && event.Type != model.EventBookingStatusChanged {
		entry = a.logger.Warn()
	}

	entry.
		Str("type", event.Type).
		Int64("booking", event.BookingID).
		Int64("user", event.UserID).
		Int64("room", event.RoomID).
		Str("status", event.Status).
		Str("previousStatus", event.PreviousStatus).
		Str("checkIn", event.CheckIn).
		Str("checkOut", event.CheckOut).
		Int("guests", event.Guests).
		Str("actor", event.Actor).
		Time("occurredAt", event.OccurredAt).
		Msg("booking event")

	return nil
}

// Run follows topic until ctx is cancelled.
func (a *Auditor) Run(ctx context.Context, client kafka.Client, consumerGroup, topic string) {
	client.Consume(ctx, consumerGroup, topic, func(message kafkaGo.Message) {
		if err := a.Handle(ctx, message); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to audit booking event")
		}
	})
}
