package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"wsb/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxIdleTime   = 5 * time.Minute
)

// Connection holds the read and write pools. Reservation writes and the
// notification claim always go through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	conn := &Connection{
		Read:  connect("read", DSN(pg.Read, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
		Write: connect("write", DSN(pg.Write, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
	}

	if conn.Read == nil || conn.Write == nil {
		log.Fatal().Msg("Could not connect to database, giving up")
	}

	return conn
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read pool: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	return errors.Join(c.Write.Close(), c.Read.Close())
}

// DSN renders endpoint as a postgres URL. Credentials are escaped, prefix is
// prepended to the database name and extra is merged into the query string.
func DSN(endpoint config.PostgresEndpoint, prefix string, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(name, dsn string, maxRetry, waitSeconds int) *sqlx.DB {
	for attempt := range max(maxRetry, 1) {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxIdleTime(postgresConnMaxIdleTime)

			log.Info().Str("name", name).Msg("Connected to database")

			return db
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Int("attempt", attempt+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	return nil
}
