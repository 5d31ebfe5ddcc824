// Package config loads the service configuration from the environment,
// after merging an optional .env file.
package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Booking  Booking  `envconfig:"BOOKING"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	Metrics  Metrics  `envconfig:"METRICS"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name        string `envconfig:"APP_NAME" default:"travelnest"`
	Timezone    string `envconfig:"TIMEZONE" default:"UTC"`
	APIKey      string `envconfig:"API_KEY"`
	CORS        CORS   `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"100"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

type Booking struct {
	// CancellationRestoresCapacity gives the unit back to the room when a
	// booking moves into the cancelled status.
	CancellationRestoresCapacity bool `envconfig:"CANCELLATION_RESTORES_CAPACITY" default:"true"`
}

type Cache struct {
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	// TTL in seconds. Zero or less disables response caching.
	TTL int `envconfig:"TTL"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

type DB struct {
	Postgres struct {
		MaxRetry       int      `envconfig:"MAX_RETRY"       default:"3"`
		RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MigrationTable string   `envconfig:"MIGRATION_TABLE"`
		AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
		Prefix         string   `envconfig:"PREFIX"`
		Read           Postgres `envconfig:"READ"`
		Write          Postgres `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
}

// Postgres addresses one node. Reads and writes may point at different nodes.
type Postgres struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Kafka struct {
	Enable        bool     `envconfig:"ENABLE"`
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"travelnest-audit"`
	Topic         struct {
		Booking string `envconfig:"BOOKING" default:"travelnest.bookings"`
	} `envconfig:"TOPIC"`
	SASL struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
}

type Metrics struct {
	Enable    bool   `envconfig:"ENABLE"`
	Namespace string `envconfig:"NAMESPACE" default:"travelnest"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 struct {
		BucketName      string `envconfig:"BUCKET_NAME"`
		APIEndpoint     string `envconfig:"API_ENDPOINT"`
		PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
	} `envconfig:"S3"`
}

var (
	conf    *Config
	once    sync.Once
	loadErr error
)

// Load reads the environment into a fresh Config. Missing files named in
// envFiles are skipped.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			log.Debug().Err(err).Str("file", file).Msg("Env file not loaded, using process environment")
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return cfg, nil
}

// Get returns the process-wide configuration, loading it from .env and the
// environment on first use. It exits the process when the environment is invalid.
func Get() *Config {
	once.Do(func() {
		conf, loadErr = Load(".env")
	})

	if loadErr != nil {
		log.Fatal().Err(loadErr).Msg("Failed to initialize configuration")
	}

	return conf
}
