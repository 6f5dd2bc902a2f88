// Package config resolves client settings.
//
// Values are layered, later sources winning: built-in defaults, the YAML
// file, SKILLSWAP_* environment variables, then command-line flags.
//
// The YAML file is read from --config, else SKILLSWAP_CONFIG, else
// $SKILLSWAP_HOME/config.yaml when that file exists. An explicitly named
// file must exist.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/skillswap/skillswap/pkg/gate"
)

// Config holds every tunable of the client.
type Config struct {
	// APIURL is the root of the SkillSwap REST backend.
	APIURL string `yaml:"api_url" env:"SKILLSWAP_API_URL"`

	// Home holds the identity file and the default config file.
	Home string `yaml:"-" env:"SKILLSWAP_HOME"`

	// ConfigPath names the YAML file that was loaded, if any.
	ConfigPath string `yaml:"-" env:"SKILLSWAP_CONFIG"`

	// HTTPTimeout bounds a single API call.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"SKILLSWAP_HTTP_TIMEOUT"`

	// UnlockWindow is how long before its start a session can be joined.
	UnlockWindow time.Duration `yaml:"unlock_window" env:"SKILLSWAP_UNLOCK_WINDOW"`

	// DefaultDuration applies to sessions that carry no duration.
	DefaultDuration time.Duration `yaml:"default_duration" env:"SKILLSWAP_DEFAULT_DURATION"`

	// Poll intervals for the views that refresh while displayed.
	SessionRefresh time.Duration `yaml:"session_refresh" env:"SKILLSWAP_SESSION_REFRESH"`
	ClockTick      time.Duration `yaml:"clock_tick" env:"SKILLSWAP_CLOCK_TICK"`
	ChatPoll       time.Duration `yaml:"chat_poll" env:"SKILLSWAP_CHAT_POLL"`
	RequestsPoll   time.Duration `yaml:"requests_poll" env:"SKILLSWAP_REQUESTS_POLL"`

	// LogFile receives JSON logs. Empty discards them.
	LogFile  string `yaml:"log_file" env:"SKILLSWAP_LOG_FILE"`
	LogLevel string `yaml:"log_level" env:"SKILLSWAP_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	home := ".skillswap"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".skillswap")
	}
	return Config{
		APIURL:          "http://localhost:8080",
		Home:            home,
		HTTPTimeout:     30 * time.Second,
		UnlockWindow:    gate.DefaultPolicy.UnlockWindow,
		DefaultDuration: gate.DefaultPolicy.DefaultDuration,
		SessionRefresh:  10 * time.Second,
		ClockTick:       time.Second,
		ChatPoll:        3 * time.Second,
		RequestsPoll:    5 * time.Second,
		LogLevel:        "info",
	}
}

// Overrides holds values given on the command line. Empty fields are unset.
type Overrides struct {
	APIURL     string
	ConfigPath string
	LogFile    string
	LogLevel   string
}

// Register binds the global flags to fs.
func (o *Overrides) Register(fs *pflag.FlagSet) {
	fs.StringVar(&o.APIURL, "api-url", "", "SkillSwap API root (default http://localhost:8080)")
	fs.StringVar(&o.ConfigPath, "config", "", "path to a YAML config file")
	fs.StringVar(&o.LogFile, "log-file", "", "write JSON logs to this file")
	fs.StringVar(&o.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Load resolves the configuration for one invocation.
func Load(o Overrides) (*Config, error) {
	cfg := Default()
	if home := os.Getenv("SKILLSWAP_HOME"); home != "" {
		cfg.Home = home
	}

	path, explicit := o.ConfigPath, o.ConfigPath != ""
	if !explicit {
		if p := os.Getenv("SKILLSWAP_CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = filepath.Join(cfg.Home, "config.yaml")
		}
	}
	if err := loadFile(&cfg, path, explicit); err != nil {
		return nil, err
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables. Fields whose
// variable is unset keep their current value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ConfigPath = path
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api url %q must be an absolute http(s) URL", c.APIURL)
	}
	if c.Home == "" {
		return errors.New("config: home directory is empty")
	}
	if c.UnlockWindow < 0 {
		return fmt.Errorf("config: unlock window must not be negative, got %s", c.UnlockWindow)
	}
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"http timeout", c.HTTPTimeout},
		{"default duration", c.DefaultDuration},
		{"session refresh", c.SessionRefresh},
		{"clock tick", c.ClockTick},
		{"chat poll", c.ChatPoll},
		{"requests poll", c.RequestsPoll},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", p.name, p.d)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

// Policy returns the session gate policy.
func (c Config) Policy() gate.Policy {
	return gate.Policy{UnlockWindow: c.UnlockWindow, DefaultDuration: c.DefaultDuration}
}

// IdentityPath is where the signed-in user is stored.
func (c Config) IdentityPath() string {
	return filepath.Join(c.Home, "identity.json")
}
