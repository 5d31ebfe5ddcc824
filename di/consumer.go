package di

import (
	"travelnest/config"
	"travelnest/infras/kafka"
	"travelnest/infras/otel"
)

// Consumer groups what cmd/consumer needs to follow the booking topic.
type Consumer struct {
	Config *config.Config
	Otel   otel.Otel
	Kafka  kafka.Client
}
