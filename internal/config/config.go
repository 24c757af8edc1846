package config

import (
	"fmt"
	"time"
)

// Environment variables that override the config file.
const (
	EnvLogLevel   = "RECIBI_LOG_LEVEL"
	EnvLogFormat  = "RECIBI_LOG_FORMAT"
	EnvInspireURL = "RECIBI_INSPIRE_URL"
	EnvOstiURL    = "RECIBI_OSTI_URL"
)

// Defaults.
const (
	DefaultInspireURL = "https://inspirehep.net/api"
	DefaultOstiURL    = "https://www.osti.gov/api/v1"
	DefaultRateLimit  = 2.0
	DefaultTimeout    = 30 * time.Second
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "console"
)

// Settings are the effective values after applying defaults and
// environment overrides to a GlobalConfig.
type Settings struct {
	SetFields    []string
	SetDelimiter string
	InspireURL   string
	OstiURL      string
	RateLimit    float64
	Timeout      time.Duration
	LogLevel     string
	LogFormat    string
}

// Resolve fills in defaults and environment overrides. A nil cfg is
// treated as empty. SetFields stays nil when unset so the merge default
// applies.
func Resolve(cfg *GlobalConfig) (Settings, error) {
	if cfg == nil {
		cfg = &GlobalConfig{}
	}

	s := Settings{
		SetFields:    cfg.SetFields,
		SetDelimiter: cfg.SetDelimiter,
		InspireURL:   GetConfigValue(EnvInspireURL, orDefault(cfg.InspireURL, DefaultInspireURL)),
		OstiURL:      GetConfigValue(EnvOstiURL, orDefault(cfg.OstiURL, DefaultOstiURL)),
		RateLimit:    cfg.RateLimit,
		Timeout:      DefaultTimeout,
		LogLevel:     GetConfigValue(EnvLogLevel, orDefault(cfg.LogLevel, DefaultLogLevel)),
		LogFormat:    GetConfigValue(EnvLogFormat, orDefault(cfg.LogFormat, DefaultLogFormat)),
	}

	if s.RateLimit < 0 {
		return Settings{}, fmt.Errorf("rate_limit must not be negative, got %g", s.RateLimit)
	}
	if s.RateLimit == 0 {
		s.RateLimit = DefaultRateLimit
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("timeout must be positive, got %s", d)
		}
		s.Timeout = d
	}

	return s, nil
}

// Load reads the global config and resolves it into Settings.
func Load() (Settings, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return Settings{}, err
	}
	return Resolve(cfg)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
