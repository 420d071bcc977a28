package app

import (
	"fmt"
	"time"

	"github.com/joefazee/visaguide/app/admin"
	"github.com/joefazee/visaguide/app/countries"
	"github.com/joefazee/visaguide/app/database"
	"github.com/joefazee/visaguide/app/storage"
	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/nexus"
)

// StorageConfig groups the settings needed to dial the catalog store. The
// importer loads it without the HTTP settings.
type StorageConfig struct {
	DB            database.Config
	Mongo         database.MongoConfig
	Storage       storage.Config
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"migrations"`
}

type Config struct {
	StorageConfig
	Admin     admin.Config
	Cache     cache.Config
	Countries countries.Config

	AppHost         string        `env:"APP_HOST" env-default:"localhost"`
	AppPort         string        `env:"APP_PORT" env-default:"8080"`
	Env             string        `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	Version         string        `env:"APP_VERSION" env-default:"dev"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
	PublicURL       string        `env:"PUBLIC_URL" env-default:"http://localhost:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the cross-field rules the struct tags cannot express.
// Backend credentials are checked when the backend is dialed so a missing
// database only degrades the service.
func (c *Config) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return fmt.Errorf("admin config: %w", err)
	}
	return nil
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	if err := nexus.NewLoader().Load(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
