package logger

import (
	"io"
	"os"
	"time"
	"travelnest/config"
	"travelnest/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger for a binary: console output while
// developing, JSON lines tagged with the app and component in production.
func Setup(config *config.Config, component string) {
	InitLogger()

	if config.Server.Env == constant.ServerEnvProduction {
		log.Logger = newJSON(os.Stdout, config.App.Name, component)
	}

	SetLogLevel(config)
}

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

func newJSON(out io.Writer, app, component string) zerolog.Logger {
	ctx := zerolog.New(out).With().Timestamp().Str("app", app)
	if component != "" {
		ctx = ctx.Str("component", component)
	}

	return ctx.Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies the configured level. Unknown names fall back to trace.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
