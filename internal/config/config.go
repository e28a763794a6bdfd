// Package config loads the client configuration from a YAML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces environment overrides, e.g. REVISE_API__BASE_URL.
const envPrefix = "REVISE_"

// API configures the remote study API client.
type API struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Scheduler holds the overridable scheduling constants. The interval
// multipliers and the new-card cap are fixed upstream with no documented
// tuning rationale, so they are exposed rather than guessed at.
type Scheduler struct {
	PageSize     int     `koanf:"page_size" validate:"gte=1"`
	NewCardCap   int     `koanf:"new_card_cap" validate:"gte=0"`
	HardInterval float64 `koanf:"hard_interval" validate:"gt=0"`
	EasyInterval float64 `koanf:"easy_interval" validate:"gt=0"`
}

// Sync bounds the background write retries.
type Sync struct {
	MaxRetries int           `koanf:"max_retries" validate:"gte=0"`
	BaseDelay  time.Duration `koanf:"base_delay" validate:"gt=0"`
}

// Log configures the file logger.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	File  string `koanf:"file"`
}

// Config is the full client configuration.
type Config struct {
	API       API       `koanf:"api"`
	Scheduler Scheduler `koanf:"scheduler"`
	Sync      Sync      `koanf:"sync"`
	Log       Log       `koanf:"log"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		API: API{
			BaseURL: "http://localhost:8080/api",
			Timeout: 30 * time.Second,
		},
		Scheduler: Scheduler{
			PageSize:     500,
			NewCardCap:   20,
			HardInterval: 1.2,
			EasyInterval: 1.3,
		},
		Sync: Sync{
			MaxRetries: 2,
			BaseDelay:  500 * time.Millisecond,
		},
		Log: Log{Level: "info"},
	}
}

// Load merges file, env and flag sources over the defaults and validates
// the result. A missing config file is fine; a malformed one is not.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	// REVISE_API__BASE_URL → api.base_url; a single underscore stays part
	// of the key name.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("config: flags: %w", err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// DefaultPath resolves the config file path: $REVISE_CONFIG, then
// $XDG_CONFIG_HOME/revise/config.yaml, then ~/.config/revise/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("REVISE_CONFIG"); p != "" {
		return p, nil
	}
	confHome := os.Getenv("XDG_CONFIG_HOME")
	if confHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		confHome = filepath.Join(home, ".config")
	}
	return filepath.Join(confHome, "revise", "config.yaml"), nil
}
