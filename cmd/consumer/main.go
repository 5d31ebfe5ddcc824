package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"travelnest/config"
	"travelnest/di"
	"travelnest/internal/domains/booking/event"
	"travelnest/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.Setup(cfg, "consumer")

	consumer := di.InitializeConsumer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("topic", cfg.Kafka.Topic.Booking).Msg("Starting booking audit consumer.")

	event.NewAuditor(consumer.Otel, log.Logger).Run(ctx, consumer.Kafka, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic.Booking)

	if err := consumer.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	if err := consumer.Otel.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Booking audit consumer stopped.")
}
