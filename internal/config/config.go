// Package config loads the demo login server configuration from the
// environment, reading a .env file first when one is present.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config interface {
	EnvConfig
	FliPollConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetSessionDB() string
	GetBaseURL() string
	GetEnv() string
	IsDev() bool
}

type mainConfig struct {
	EnvVars
	FliPoll
	Security
}

// Load reads .env (if any) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	cfg := mainConfig{}
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "[config.Parse] parsing environment")
	}
	if err := cfg.FliPoll.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
