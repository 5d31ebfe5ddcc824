package main

import (
	"travelnest/config"
	"travelnest/di"
	"travelnest/helper"
	"travelnest/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.Setup(cfg, "api")

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	log.Info().Str("env", cfg.Server.Env).Str("timezone", cfg.App.Timezone).Msg("Starting TravelNest API.")

	server := di.InitializeService()
	server.Serve()
}
