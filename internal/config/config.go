package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"cms-origination"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"origination"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Underwriting struct {
		// AssumedRate is the annual interest rate, in percent, used to
		// qualify applicants before a program is locked.
		AssumedRate float64 `envconfig:"UW_ASSUMED_RATE" default:"7.0"`
	}

	AUS struct {
		// Mode selects the submission strategy: simulated or remote.
		Mode         string `envconfig:"AUS_MODE" default:"simulated"`
		Endpoint     string `envconfig:"AUS_ENDPOINT"`
		ClientID     string `envconfig:"AUS_CLIENT_ID"`
		ClientSecret string `envconfig:"AUS_CLIENT_SECRET"`
	}

	Notify struct {
		Endpoint string `envconfig:"NOTIFY_ENDPOINT"`
		Token    string `envconfig:"NOTIFY_TOKEN"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
