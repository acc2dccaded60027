package logger

import (
	"io"
	"os"
	"time"

	"wsb/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envProduction = "production"

// InitLogger installs the global zerolog logger. Processes share it through the log package.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = New(os.Stdout, "")
	log.Trace().Msg("Zerolog initialized.")
}

// New builds a logger writing to out. Production environments get plain JSON lines.
func New(out io.Writer, env string) zerolog.Logger {
	var writer io.Writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	if env == envProduction {
		writer = out
	}

	return zerolog.New(writer).With().Timestamp().Logger()
}

// Configure applies environment dependent output and the configured level.
func Configure(cfg *config.Config, component string) {
	log.Logger = New(os.Stdout, cfg.Server.Env).With().Str("component", component).Logger()
	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

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
