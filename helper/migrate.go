package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"wsb/config"
	"wsb/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"

	migrationSource = "file://migrations/postgres"
)

var ErrUnknownAction = errors.New("unknown migration action, use 'up', 'down', 'drop' or 'step-up'")

// actions maps each command to its migrate call and the message logged on success.
var actions = map[string]struct {
	run  func(mig *migrate.Migrate) error
	done string
}{
	ActionUp:     {run: (*migrate.Migrate).Up, done: "database migrated to latest version"},
	ActionDown:   {run: func(mig *migrate.Migrate) error { return mig.Steps(-1) }, done: "rolled back one migration"},
	ActionStepUp: {run: func(mig *migrate.Migrate) error { return mig.Steps(1) }, done: "applied one migration"},
	ActionDrop:   {run: (*migrate.Migrate).Down, done: "rolled back every migration"},
}

// ConnectionString targets the write pool, where the schema lives.
func ConnectionString(config *config.Config) string {
	pg := config.DB.Postgres

	extra := url.Values{}
	if pg.MigrationTable != "" {
		extra.Set("x-migrations-table", pg.MigrationTable)
	}

	return postgres.DSN(pg.Write, pg.Prefix, extra)
}

func Runner(config *config.Config, action string) error {
	step, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := migrate.New(migrationSource, ConnectionString(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := step.run(mig); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("action", action).Msg("database schema already up to date")

			return nil
		}

		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg(step.done)

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
