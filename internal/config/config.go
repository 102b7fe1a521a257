package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	DBDriver     string        `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost       string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort       string        `envconfig:"DB_PORT" default:"3306"`
	DBUser       string        `envconfig:"DB_USER" default:"projectuser"`
	DBPassword   string        `envconfig:"DB_PASSWORD" default:"projectpassword"`
	DBName       string        `envconfig:"DB_NAME" default:"project_management"`
	JWTSecret    string        `envconfig:"JWT_SECRET" default:"default-secret-key-change-me"`
	TokenExpiry  time.Duration `envconfig:"TOKEN_EXPIRY" default:"168h"`
	GinMode      string        `envconfig:"GIN_MODE" default:"debug"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty    bool          `envconfig:"LOG_PRETTY" default:"false"`
	OpenAIAPIKey string        `envconfig:"OPENAI_API_KEY" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}
