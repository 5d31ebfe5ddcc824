package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
	"travelnest/config"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

const (
	errCodeUniqueViolation = "23505"
	errCodeCheckViolation  = "23514"
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New connects the write node and, when one is configured, a read replica.
// Without DB_POSTGRES_READ_HOST reads share the write pool.
func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	write := node{name: "write", settings: pg.Write}.connect(pg.Prefix, pg.MaxRetry, pg.RetryWaitTime)
	if pg.Read.Host == "" {
		return &Connection{Read: write, Write: write}
	}

	read := node{name: "read", settings: pg.Read}.connect(pg.Prefix, pg.MaxRetry, pg.RetryWaitTime)

	return &Connection{Read: read, Write: write}
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("ping write: %w", err)
	}

	if c.Read != c.Write {
		if err := c.Read.PingContext(ctx); err != nil {
			return fmt.Errorf("ping read: %w", err)
		}
	}

	return nil
}

// WithTx runs fn inside a transaction on the write connection. The transaction
// is committed when fn returns nil and rolled back otherwise.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
				log.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (c *Connection) Close() {
	if c.Read != nil {
		if err := c.Read.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close read connection")
		}
	}

	if c.Write != nil && c.Write != c.Read {
		if err := c.Write.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close write connection")
		}
	}
}

// IsUniqueViolation reports whether err is a postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pq.Error

	return errors.As(err, &pgErr) && pgErr.Code == errCodeUniqueViolation
}

// IsCheckViolation reports whether err is a postgres check constraint violation.
func IsCheckViolation(err error) bool {
	var pgErr *pq.Error

	return errors.As(err, &pgErr) && pgErr.Code == errCodeCheckViolation
}

type node struct {
	name     string
	settings config.Postgres
}

// DSN renders a postgres connection URL. Extra query values such as the
// migrate table are merged after sslmode.
func DSN(settings config.Postgres, prefix string, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", settings.SSLMode)

	for key, values := range extra {
		query[key] = values
	}

	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(settings.Username, settings.Password),
		Host:     net.JoinHostPort(settings.Host, settings.Port),
		Path:     "/" + prefix + settings.Name,
		RawQuery: query.Encode(),
	}).String()
}

// connect dials the node, retrying maxRetry times. It exits the process when
// the node never answers.
func (n node) connect(prefix string, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().Str("name", n.name).Str("host", n.settings.Host).Str("dbName", prefix+n.settings.Name).Logger()

	for attempt := 1; attempt <= max(maxRetry, 1); attempt++ {
		db, err := sqlx.Connect("postgres", DSN(n.settings, prefix, nil))
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Int("attempts", maxRetry).Msg("Could not connect to database")

	return nil
}
