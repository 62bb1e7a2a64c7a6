package config

import "time"

type SecurityConfig interface {
	GetMaxSessionAge() time.Duration
	GetSecureCookies() bool
}

type Security struct {
	MaxSessionAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"30m"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
}

var _ SecurityConfig = Security{}

func (s Security) GetMaxSessionAge() time.Duration {
	return s.MaxSessionAge
}

// GetSecureCookies marks the session cookie Secure; enable behind TLS.
func (s Security) GetSecureCookies() bool {
	return s.SecureCookies
}
