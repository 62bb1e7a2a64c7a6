package config

import (
	"strings"

	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/pkg/errors"
)

// FliPollConfig holds the fliPoll app credentials the demo logs in with.
type FliPollConfig interface {
	GetAppID() string
	GetAppSecret() string
	GetAPIVersion() string
	GetScopes() []string
	// GetAPIBaseURL and GetIntentURL are empty unless overridden, in which
	// case the SDK defaults apply.
	GetAPIBaseURL() string
	GetIntentURL() string
}

type FliPoll struct {
	AppID      string   `env:"FLIPOLL_APP_ID"`
	AppSecret  string   `env:"FLIPOLL_APP_SECRET"`
	APIVersion string   `env:"FLIPOLL_API_VERSION" envDefault:"v2.1"`
	Scopes     []string `env:"FLIPOLL_SCOPES" envSeparator:","`
	APIBaseURL string   `env:"FLIPOLL_API_URL"`
	IntentURL  string   `env:"FLIPOLL_INTENT_URL"`
}

var _ FliPollConfig = FliPoll{}

func (f FliPoll) validate() error {
	if strings.TrimSpace(f.AppID) == "" {
		return errors.Wrap(sdkerrors.ErrConfig, "[config] FLIPOLL_APP_ID is required")
	}
	if strings.TrimSpace(f.AppSecret) == "" {
		return errors.Wrap(sdkerrors.ErrConfig, "[config] FLIPOLL_APP_SECRET is required")
	}
	return nil
}

func (f FliPoll) GetAppID() string {
	return f.AppID
}

func (f FliPoll) GetAppSecret() string {
	return f.AppSecret
}

func (f FliPoll) GetAPIVersion() string {
	return f.APIVersion
}

func (f FliPoll) GetScopes() []string {
	return f.Scopes
}

func (f FliPoll) GetAPIBaseURL() string {
	return f.APIBaseURL
}

func (f FliPoll) GetIntentURL() string {
	return f.IntentURL
}
