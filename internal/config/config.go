// Package config loads glossary settings from defaults, an optional
// glossary.yaml file, GLOSSARY_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys understood by Load. Flags bind to these names.
const (
	KeyStoragePath   = "storage.path"
	KeyAdminAddr     = "admin.addr"
	KeyServerAddr    = "server.addr"
	KeyLogLevel      = "log.level"
	KeyWatchEnabled  = "watch.enabled"
	KeyWatchDebounce = "watch.debounce"
)

// Config holds the settings shared by the glossary binaries.
type Config struct {
	StoragePath   string
	AdminAddr     string
	ServerAddr    string
	LogLevel      slog.Level
	WatchEnabled  bool
	WatchDebounce time.Duration
}

// New returns a viper instance with defaults, config file search paths and
// environment binding applied. Callers may bind flags before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyStoragePath, "Terms.xml")
	v.SetDefault(KeyAdminAddr, ":8081")
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyWatchEnabled, true)
	v.SetDefault(KeyWatchDebounce, "250ms")

	v.SetConfigName("glossary")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.glossary")

	v.SetEnvPrefix("GLOSSARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and decodes all settings.
// A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	level, err := parseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	debounce, err := time.ParseDuration(v.GetString(KeyWatchDebounce))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", KeyWatchDebounce, v.GetString(KeyWatchDebounce), err)
	}

	cfg := &Config{
		StoragePath:   v.GetString(KeyStoragePath),
		AdminAddr:     v.GetString(KeyAdminAddr),
		ServerAddr:    v.GetString(KeyServerAddr),
		LogLevel:      level,
		WatchEnabled:  v.GetBool(KeyWatchEnabled),
		WatchDebounce: debounce,
	}
	if strings.TrimSpace(cfg.StoragePath) == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyStoragePath)
	}
	return cfg, nil
}

// NewLogger builds the text logger used by the binaries.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, s, err)
	}
	return level, nil
}
