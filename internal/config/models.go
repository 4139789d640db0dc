package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/branchdesk/reservectl/internal/branches"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version     int          `yaml:"version" validate:"eq=1"`
	API         *APISettings `yaml:"api,omitempty" validate:"required"`
	Preferences *Preferences `yaml:"preferences,omitempty" validate:"required"`
}

// APISettings describes how to reach the API. The token is not part of it.
type APISettings struct {
	BaseURL           string  `yaml:"base_url" validate:"omitempty,url"`          // API root, e.g. https://api.foodics.com/v5
	TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"gte=0,lte=300"`   // Per-request timeout (0 = default)
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`       // Client-side throttle (0 = off)
}

// Preferences represents CLI preferences.
type Preferences struct {
	OutputFormat string `yaml:"output_format" validate:"omitempty,oneof=detailed compact json"` // Default --format
	ConfirmBulk  bool   `yaml:"confirm_bulk"`                                                   // Prompt before disable-all / enable-all
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: CurrentVersion,
		API: &APISettings{
			BaseURL:        branches.DefaultBaseURL,
			TimeoutSeconds: int(branches.DefaultTimeout / time.Second),
		},
		Preferences: &Preferences{
			OutputFormat: "detailed",
			ConfirmBulk:  true,
		},
	}
}

var validate = validator.New()

// Validate checks field ranges and formats.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	if s.API == nil || s.API.TimeoutSeconds <= 0 {
		return branches.DefaultTimeout
	}
	return time.Duration(s.API.TimeoutSeconds) * time.Second
}

// ClientConfig builds the transport configuration for the branches client.
func (s *Settings) ClientConfig(token, userAgent string) branches.Config {
	cfg := branches.Config{
		Token:     token,
		Timeout:   s.Timeout(),
		UserAgent: userAgent,
	}
	if s.API != nil {
		cfg.BaseURL = s.API.BaseURL
		cfg.RequestsPerSecond = s.API.RequestsPerSecond
	}
	return cfg
}

// fillDefaults initialises sections missing from an older or hand-written file.
func (s *Settings) fillDefaults() {
	defaults := NewSettings()
	if s.API == nil {
		s.API = defaults.API
	}
	if s.Preferences == nil {
		s.Preferences = defaults.Preferences
	}
}
