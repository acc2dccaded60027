package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresEndpoint is one side of the read/write pool pair.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT" default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"wsb"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Schedule struct {
		StepMinutes        int    `envconfig:"STEP_MINUTES"         default:"30"`
		DayOpen            string `envconfig:"DAY_OPEN"             default:"07:00"`
		DayClose           string `envconfig:"DAY_CLOSE"            default:"22:00"`
		MaxDurationMinutes int    `envconfig:"MAX_DURATION_MINUTES" default:"480"`
	} `envconfig:"SCHEDULE"`

	Notification struct {
		Workers                  int    `envconfig:"WORKERS"                    default:"2"`
		Batch                    int    `envconfig:"BATCH"                      default:"10"`
		PollIntervalSeconds      int    `envconfig:"POLL_INTERVAL_SECONDS"      default:"15"`
		ProcessingTimeoutSeconds int    `envconfig:"PROCESSING_TIMEOUT_SECONDS" default:"300"`
		SweepIntervalSeconds     int    `envconfig:"SWEEP_INTERVAL_SECONDS"     default:"60"`
		StartLeadMinutes         int    `envconfig:"START_LEAD_MINUTES"         default:"0"`
		EndLeadMinutes           int    `envconfig:"END_LEAD_MINUTES"           default:"0"`
		SendTimeoutSeconds       int    `envconfig:"SEND_TIMEOUT_SECONDS"       default:"10"`
		ErrorMaxLength           int    `envconfig:"ERROR_MAX_LENGTH"           default:"500"`
		EmailTopic               string `envconfig:"EMAIL_TOPIC"                default:"wsb.notifications.email"`
	} `envconfig:"NOTIFICATION"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL           int `envconfig:"TTL"            default:"300"`
		SlotsTTL      int `envconfig:"SLOTS_TTL"      default:"300"`
		HeatmapTTL    int `envconfig:"HEATMAP_TTL"    default:"300"`
		CategoriesTTL int `envconfig:"CATEGORIES_TTL" default:"1800"`
		ResourcesTTL  int `envconfig:"RESOURCES_TTL"  default:"1800"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
		AdminRole    string `envconfig:"ADMIN_ROLE" default:"admin"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}
