package config

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/matching-engine/pkg/errors"
	"github.com/muhammadchandra19/matching-engine/pkg/redis"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewTracer(errors.ConfigError).Wrap(err)
	}

	if err := env.Parse(cfg); err != nil {
		return errors.NewTracer(errors.ConfigError).Wrap(err)
	}

	return nil
}

// Config holds the configuration for the application
type Config struct {
	Pair     string `env:"PAIR,required"` // Trading pair, e.g., BTC-USD
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Kafka          KafkaConfig          `envPrefix:"KAFKA_"`
	EventPublisher EventPublisherConfig `envPrefix:"EVENT_PUBLISHER_"`
	Redis          redis.Config         `envPrefix:"REDIS_"`
	Journal        JournalConfig        `envPrefix:"JOURNAL_"`
	Engine         EngineConfig         `envPrefix:"ENGINE_"`
}

// KafkaConfig holds the configuration for the order command consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID"` // empty: partition 0, offsets owned by snapshots
	Brokers []string `env:"BROKER,required"`
}

// EventPublisherConfig holds the configuration for the event producer.
type EventPublisherConfig struct {
	Topic        string        `env:"TOPIC" envDefault:"orderbook-events"`
	Brokers      []string      `env:"BROKER,required"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
}

// JournalConfig holds the location of the on-disk event journal.
type JournalConfig struct {
	Dir string `env:"DIR" envDefault:"./data/journal"`
}

// EngineConfig controls the runtime loop.
type EngineConfig struct {
	SnapshotInterval    time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`
	SnapshotOffsetDelta int64         `env:"SNAPSHOT_OFFSET_DELTA" envDefault:"1000"`
	MailboxSize         int           `env:"MAILBOX_SIZE" envDefault:"1024"`
	EmitReceived        bool          `env:"EMIT_RECEIVED" envDefault:"false"`
}
