// Package config parses the service configuration from environment variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for one fleet process.
type Config struct {
	// Leader marks this process as the single owner of the messaging
	// channel. Exactly one process in the fleet should set it.
	Leader bool `env:"LEADER"`

	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR,required"`

	AssetsDir string `env:"ASSETS_DIR" envDefault:"/opt/rosterboard/assets"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	Storage  Storage  `envPrefix:"STORAGE_"`
	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Delivery Delivery `envPrefix:"DELIVERY_"`
	Render   Render   `envPrefix:"RENDER_"`
}

// Storage selects and configures the object-storage provider.
type Storage struct {
	Provider string `env:"PROVIDER" envDefault:"cdn"` // cdn, localfs, gdrive

	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	LocalRoot     string `env:"LOCAL_ROOT"`

	GDriveClientID     string `env:"GDRIVE_CLIENT_ID"`
	GDriveClientSecret string `env:"GDRIVE_CLIENT_SECRET"`
	GDriveRefreshToken string `env:"GDRIVE_REFRESH_TOKEN"`
}

// Telegram configures the bot connection used by the leader process.
type Telegram struct {
	Token       string        `env:"TOKEN"`
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"10s"`
}

// Delivery tunes the cross-process dispatcher.
type Delivery struct {
	QueueName     string        `env:"QUEUE_NAME" envDefault:"rosterboard:deliveries"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"100ms"`
	MaxWait       time.Duration `env:"MAX_WAIT" envDefault:"45s"`
	ResultTTL     time.Duration `env:"RESULT_TTL" envDefault:"60s"`
	MaxQueueDepth int64         `env:"MAX_QUEUE_DEPTH" envDefault:"1000"`
}

// Render tunes the isolated renderer.
type Render struct {
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ChromePath string        `env:"CHROME_PATH"`
}

// Parse parses the configuration from the given environment variables,
// typically os.Environ(). Variables are prefixed with ROSTERBOARD_.
func Parse(environ []string) (*Config, error) {
	var cfg Config

	err := env.ParseWithOptions(&cfg, env.Options{
		Environment: env.ToMap(environ),
		Prefix:      "ROSTERBOARD_",
	})
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
