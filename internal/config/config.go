package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"4000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	API struct {
		BaseURL        string `env:"BASE_URL,required"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
	} `envPrefix:"API_"`
	Session struct {
		Secret     string `env:"SECRET,required"`
		CookieName string `env:"COOKIE_NAME" envDefault:"__bakery_scheduler_session"`
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 14 days
	} `envPrefix:"SESSION_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
		IdentityTTL      int    `env:"IDENTITY_TTL" envDefault:"300"`
	} `envPrefix:"REDIS_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// return only the first error to keep the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
