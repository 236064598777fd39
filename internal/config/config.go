// Package config wraps viper with a nil-safe accessor type and the loader
// used by the shelfd server. Configuration comes from an optional YAML file,
// SHELFD_* environment variables, and built-in defaults, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config provides read access to configuration values. A Config wrapping a
// nil viper returns zero values instead of panicking.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load builds the server configuration. If path is empty, a shelfd.yaml in
// the working directory is used when present; a missing file is not an
// error, an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.rate_limit.rps", 10)
	v.SetDefault("server.rate_limit.burst", 25)
	v.SetDefault("server.cors.origins", []string{"*"})
	v.SetDefault("store.path", "shelfd.db")
	v.SetDefault("store.seed", false)

	v.SetEnvPrefix("SHELFD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("shelfd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return New(v), nil
}

// GetString returns the string value for key, or "" if unset.
func (c *Config) GetString(key string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// GetInt returns the int value for key, or 0 if unset.
func (c *Config) GetInt(key string) int {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

// GetBool returns the bool value for key, or false if unset.
func (c *Config) GetBool(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

// GetDuration returns the duration value for key, or 0 if unset.
func (c *Config) GetDuration(key string) time.Duration {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

// GetStringSlice returns the string slice value for key, or nil if unset.
func (c *Config) GetStringSlice(key string) []string {
	if c == nil || c.v == nil {
		return nil
	}
	return c.v.GetStringSlice(key)
}

// IsSet reports whether key has a value.
func (c *Config) IsSet(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the configuration subtree under key. Always returns a usable
// Config, never nil.
func (c *Config) Sub(key string) *Config {
	if c == nil || c.v == nil {
		return New(nil)
	}
	sub := c.v.Sub(key)
	if sub == nil {
		return New(nil)
	}
	return New(sub)
}

// Unmarshal decodes the configuration into target via mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	if c == nil || c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
