package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port      string `env:"PORT" envDefault:"8080"`
	AppName   string `env:"APP_NAME" envDefault:"fliPoll Login Demo"`
	SessionDB string `env:"SESSION_DB" envDefault:"./data/sessions.db"`
	// BaseURL is the public URL of the demo, used to build redirect URIs.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Env     string `env:"ENV" envDefault:"DEV"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return fmt.Sprintf(":%s", e.Port)
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetSessionDB() string {
	return e.SessionDB
}

func (e EnvVars) GetBaseURL() string {
	return strings.TrimRight(e.BaseURL, "/")
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

// IsDev reports whether the server runs in the DEV environment.
func (e EnvVars) IsDev() bool {
	return strings.EqualFold(e.Env, "DEV")
}
