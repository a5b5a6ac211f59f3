// Package config provides configuration management for authgate.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/jmgilman/authgate/internal/adapter"
)

// Default configuration values.
const (
	DefaultConfigDir    = "authgate"
	DefaultConfigFile   = "config.yaml"
	DefaultCacheDirName = "authgate-auth"

	DefaultCacheTTL     = 300 * time.Second
	DefaultSessionTTL   = 86400 * time.Second
	DefaultMaxAttempts  = 3
	DefaultCheckTimeout = 30 * time.Second
	DefaultLoginTimeout = 600 * time.Second
)

// Storage backends accepted by cache.backend.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey  = errors.New("invalid configuration key")
	ErrInvalidMode = errors.New("invalid interactivity mode")
)

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full authgate configuration. It is built once per
// process and passed explicitly to every component that needs it.
type Config struct {
	Cache    CacheConfig              `mapstructure:"cache" validate:"required"`
	Session  SessionConfig            `mapstructure:"session" validate:"required"`
	Auth     AuthConfig               `mapstructure:"auth" validate:"required"`
	Services map[string]ServiceConfig `mapstructure:"services" validate:"dive"`
}

// CacheConfig holds cache storage configuration.
type CacheConfig struct {
	Dir     string        `mapstructure:"dir" validate:"required"`
	TTL     time.Duration `mapstructure:"ttl" validate:"min=1s"`
	Backend string        `mapstructure:"backend" validate:"oneof=file keyring"`
}

// SessionConfig holds session storage configuration.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"min=1s"`
}

// AuthConfig holds orchestrator behavior.
type AuthConfig struct {
	Interactive  Mode          `mapstructure:"interactive"`
	MaxAttempts  int           `mapstructure:"max_attempts" validate:"gte=1"`
	CheckTimeout time.Duration `mapstructure:"check_timeout" validate:"gt=0"`
	LoginTimeout time.Duration `mapstructure:"login_timeout" validate:"gt=0"`
}

// ServiceConfig declares a service beyond the built-in set.
type ServiceConfig struct {
	Binary        string   `mapstructure:"binary"`
	Check         []string `mapstructure:"check" validate:"required,min=1,dive,required"`
	Login         []string `mapstructure:"login" validate:"required_without=TokenLogin"`
	TokenLogin    []string `mapstructure:"token_login"`
	TokenEnv      string   `mapstructure:"token_env"`
	RequireOutput bool     `mapstructure:"require_output"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ServiceDescriptors converts the configured services into adapter
// descriptors, sorted by name.
func (c *Config) ServiceDescriptors() []adapter.Descriptor {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	descs := make([]adapter.Descriptor, 0, len(names))
	for _, name := range names {
		svc := c.Services[name]
		binary := svc.Binary
		if binary == "" && len(svc.Check) > 0 {
			binary = filepath.Base(svc.Check[0])
		}
		descs = append(descs, adapter.Descriptor{
			Name:          name,
			Binary:        binary,
			Check:         svc.Check,
			Login:         svc.Login,
			TokenLogin:    svc.TokenLogin,
			TokenEnv:      svc.TokenEnv,
			RequireOutput: svc.RequireOutput,
		})
	}
	return descs
}

// Loader provides configuration loading and saving.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a new configuration loader. Environment variables are
// bound here; nothing else in authgate reads configuration from the
// environment.
func NewLoader() (*Loader, error) {
	// Pick up XDG_* overrides made after process start (tests, wrappers).
	xdg.Reload()

	configPath := filepath.Join(xdg.ConfigHome, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variable binding
	v.SetEnvPrefix("AUTHGATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind the documented override variables to config keys.
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("cache.dir", "AUTH_CACHE_DIR", "AUTHGATE_CACHE_DIR")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("cache.ttl", "AUTH_CACHE_TTL", "AUTHGATE_CACHE_TTL")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("cache.backend", "AUTH_STORE_BACKEND", "AUTHGATE_CACHE_BACKEND")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("session.ttl", "AUTH_SESSION_TTL", "AUTHGATE_SESSION_TTL")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("auth.interactive", "AUTH_INTERACTIVE", "AUTHGATE_AUTH_INTERACTIVE")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("auth.max_attempts", "AUTH_MAX_ATTEMPTS", "AUTHGATE_AUTH_MAX_ATTEMPTS")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("auth.check_timeout", "AUTH_CHECK_TIMEOUT", "AUTHGATE_AUTH_CHECK_TIMEOUT")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("auth.login_timeout", "AUTH_LOGIN_TIMEOUT", "AUTHGATE_AUTH_LOGIN_TIMEOUT")

	l := &Loader{
		v:    v,
		path: configPath,
	}

	// Set defaults before any config reading
	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("cache.dir", filepath.Join(xdg.CacheHome, DefaultCacheDirName))
	l.v.SetDefault("cache.ttl", int(DefaultCacheTTL.Seconds()))
	l.v.SetDefault("cache.backend", BackendFile)
	l.v.SetDefault("session.ttl", int(DefaultSessionTTL.Seconds()))
	l.v.SetDefault("auth.interactive", string(ModeAuto))
	l.v.SetDefault("auth.max_attempts", DefaultMaxAttempts)
	l.v.SetDefault("auth.check_timeout", int(DefaultCheckTimeout.Seconds()))
	l.v.SetDefault("auth.login_timeout", int(DefaultLoginTimeout.Seconds()))
}

// Load reads the configuration file if one exists and overlays environment
// variables. A missing file is not an error and is never created here.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); err == nil {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			secondsHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	mode, err := ParseMode(string(cfg.Auth.Interactive))
	if err != nil {
		return nil, err
	}
	cfg.Auth.Interactive = mode

	// Expand paths
	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// AllSettings returns the merged configuration as a nested map.
func (l *Loader) AllSettings() map[string]any {
	return l.v.AllSettings()
}

// Set sets a configuration value by dot-notation key and writes the
// configuration file, creating it if needed.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if key == "auth.interactive" {
		mode, err := ParseMode(value)
		if err != nil {
			return err
		}
		value = string(mode)
	}

	l.v.Set(key, value)

	// Write from a fresh instance so defaults and environment overrides
	// held by l.v never end up in the file.
	fv := viper.New()
	fv.SetConfigFile(l.path)
	fv.SetConfigType("yaml")

	_, err := os.Stat(l.path)
	switch {
	case err == nil:
		if err := fv.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	default:
		return fmt.Errorf("stat config: %w", err)
	}

	fv.Set(key, value)
	return fv.WriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	if path == "~" {
		return xdg.Home
	}
	return path
}

// secondsHookFunc decodes bare integers (or numeric strings) into
// time.Duration as seconds, and other strings with time.ParseDuration.
func secondsHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			s := strings.TrimSpace(v)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return time.Duration(n) * time.Second, nil
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid duration %q: expected seconds or a Go duration", v)
			}
			return d, nil
		default:
			return data, nil
		}
	}
}

// ValidateKey checks if a key is a valid configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	// Check for exact match in derived valid keys
	if validKeys[key] {
		return nil
	}

	// services.<name>[.<field>] (map type needs special handling)
	if strings.HasPrefix(key, "services.") {
		parts := strings.SplitN(key, ".", 3)
		if len(parts) == 2 && parts[1] != "" {
			return nil
		}
		if len(parts) == 3 && validKeys["services.*."+parts[2]] {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// buildValidKeys builds the set of valid keys from Config struct using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type. Map values
// are recorded under a "*" segment.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		switch {
		case field.Type.Kind() == reflect.Struct:
			addKeysFromType(field.Type, key, keys)
		case field.Type.Kind() == reflect.Map && field.Type.Elem().Kind() == reflect.Struct:
			addKeysFromType(field.Type.Elem(), key+".*", keys)
		}
	}
}
