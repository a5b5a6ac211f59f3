package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/authgate/internal/adapter"
)

// isolate points HOME and the XDG directories at a temp dir and clears
// the override variables.
func isolate(t *testing.T) string {
	t.Helper()

	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpHome, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpHome, ".cache"))
	for _, key := range []string{
		"AUTH_CACHE_DIR", "AUTH_CACHE_TTL", "AUTH_SESSION_TTL", "AUTH_INTERACTIVE",
		"AUTH_MAX_ATTEMPTS", "AUTH_CHECK_TIMEOUT", "AUTH_LOGIN_TIMEOUT", "AUTH_STORE_BACKEND",
	} {
		t.Setenv(key, "")
	}
	return tmpHome
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()

	configDir := filepath.Join(home, ".config", "authgate")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	tmpHome := isolate(t)

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpHome, ".cache", "authgate-auth"), cfg.Cache.Dir)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, 86400*time.Second, cfg.Session.TTL)
	assert.Equal(t, ModeAuto, cfg.Auth.Interactive)
	assert.Equal(t, 3, cfg.Auth.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Auth.CheckTimeout)
	assert.Equal(t, 600*time.Second, cfg.Auth.LoginTimeout)
	assert.Empty(t, cfg.Services)

	// The config file is never created implicitly.
	_, err = os.Stat(loader.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestLoader_Load_ReadsExistingConfig(t *testing.T) {
	tmpHome := isolate(t)

	writeConfig(t, tmpHome, `
cache:
  dir: ~/custom/auth
  ttl: 60
session:
  ttl: 2h
auth:
  interactive: noninteractive
  max_attempts: 5
services:
  vault:
    check: [vault, token, lookup]
    login: [vault, login, -method=oidc]
    token_env: VAULT_TOKEN
`)

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpHome, "custom", "auth"), cfg.Cache.Dir)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, ModeNonInteractive, cfg.Auth.Interactive)
	assert.Equal(t, 5, cfg.Auth.MaxAttempts)

	require.Contains(t, cfg.Services, "vault")
	assert.Equal(t, []string{"vault", "token", "lookup"}, cfg.Services["vault"].Check)
	assert.Equal(t, "VAULT_TOKEN", cfg.Services["vault"].TokenEnv)
}

func TestLoader_Load_EnvVarOverride(t *testing.T) {
	tmpHome := isolate(t)

	writeConfig(t, tmpHome, "cache:\n  ttl: 60\n")

	t.Setenv("AUTH_CACHE_DIR", "/tmp/authgate-test")
	t.Setenv("AUTH_CACHE_TTL", "10")
	t.Setenv("AUTH_SESSION_TTL", "20")
	t.Setenv("AUTH_INTERACTIVE", "false")
	t.Setenv("AUTH_MAX_ATTEMPTS", "1")
	t.Setenv("AUTH_CHECK_TIMEOUT", "5")
	t.Setenv("AUTH_LOGIN_TIMEOUT", "90s")
	t.Setenv("AUTH_STORE_BACKEND", "keyring")

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	// Env vars should override file values and defaults
	assert.Equal(t, "/tmp/authgate-test", cfg.Cache.Dir)
	assert.Equal(t, 10*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 20*time.Second, cfg.Session.TTL)
	assert.Equal(t, ModeNonInteractive, cfg.Auth.Interactive)
	assert.Equal(t, 1, cfg.Auth.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Auth.CheckTimeout)
	assert.Equal(t, 90*time.Second, cfg.Auth.LoginTimeout)
	assert.Equal(t, BackendKeyring, cfg.Cache.Backend)
}

func TestLoader_Load_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "bad mode", key: "AUTH_INTERACTIVE", value: "sometimes", wantErr: ErrInvalidMode},
		{name: "bad ttl", key: "AUTH_CACHE_TTL", value: "soon"},
		{name: "zero ttl", key: "AUTH_SESSION_TTL", value: "0"},
		{name: "sub-second cache ttl", key: "AUTH_CACHE_TTL", value: "500ms"},
		{name: "sub-second session ttl", key: "AUTH_SESSION_TTL", value: "999ms"},
		{name: "zero attempts", key: "AUTH_MAX_ATTEMPTS", value: "0"},
		{name: "unknown backend", key: "AUTH_STORE_BACKEND", value: "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			loader, err := NewLoader()
			require.NoError(t, err)

			_, err = loader.Load()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoader_Path(t *testing.T) {
	tmpHome := isolate(t)

	loader, err := NewLoader()
	require.NoError(t, err)

	expected := filepath.Join(tmpHome, ".config", "authgate", "config.yaml")
	assert.Equal(t, expected, loader.Path())
}

func TestLoader_Get(t *testing.T) {
	isolate(t)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("valid key returns value", func(t *testing.T) {
		val, err := loader.Get("cache.backend")
		require.NoError(t, err)
		assert.Equal(t, BackendFile, val)
	})

	t.Run("invalid key returns error", func(t *testing.T) {
		_, err := loader.Get("invalid.key")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestLoader_Set(t *testing.T) {
	isolate(t)

	loader, err := NewLoader()
	require.NoError(t, err)

	t.Run("creates the file on first write", func(t *testing.T) {
		require.NoError(t, loader.Set("auth.max_attempts", "4"))

		_, err := os.Stat(loader.Path())
		require.NoError(t, err)

		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Auth.MaxAttempts)
	})

	t.Run("normalizes mode aliases", func(t *testing.T) {
		require.NoError(t, loader.Set("auth.interactive", "yes"))

		val, err := loader.Get("auth.interactive")
		require.NoError(t, err)
		assert.Equal(t, "interactive", val)
	})

	t.Run("rejects invalid key", func(t *testing.T) {
		err := loader.Set("invalid.key", "value")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("rejects invalid mode", func(t *testing.T) {
		err := loader.Set("auth.interactive", "maybe")
		assert.ErrorIs(t, err, ErrInvalidMode)
	})
}

func TestLoader_Set_WritesOnlyFileSettings(t *testing.T) {
	tmpHome := isolate(t)
	writeConfig(t, tmpHome, "session:\n  ttl: 600\n")
	t.Setenv("AUTH_CACHE_DIR", "/tmp/from-env")
	t.Setenv("AUTH_CACHE_TTL", "7")

	loader, err := NewLoader()
	require.NoError(t, err)
	_, err = loader.Load()
	require.NoError(t, err)

	require.NoError(t, loader.Set("auth.max_attempts", "5"))

	data, err := os.ReadFile(loader.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "max_attempts")
	assert.Contains(t, content, "600", "existing file settings are kept")
	assert.NotContains(t, content, "/tmp/from-env", "env overrides stay out of the file")
	assert.NotContains(t, content, "cache", "defaults stay out of the file")
	assert.NotContains(t, content, "check_timeout")

	val, err := loader.Get("auth.max_attempts")
	require.NoError(t, err)
	assert.Equal(t, "5", val)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Cache:   CacheConfig{Dir: "/tmp/auth", TTL: time.Minute, Backend: BackendFile},
			Session: SessionConfig{TTL: time.Hour},
			Auth:    AuthConfig{Interactive: ModeAuto, MaxAttempts: 3, CheckTimeout: time.Second, LoginTimeout: time.Minute},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("sub-second ttls", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.TTL = 500 * time.Millisecond
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Session.TTL = 999 * time.Millisecond
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Cache.TTL = time.Second
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing cache dir", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Dir = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Dir")
	})

	t.Run("service without check", func(t *testing.T) {
		cfg := valid()
		cfg.Services = map[string]ServiceConfig{"vault": {Login: []string{"vault", "login"}}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Check")
	})

	t.Run("service with only token login", func(t *testing.T) {
		cfg := valid()
		cfg.Services = map[string]ServiceConfig{"vault": {
			Check:      []string{"vault", "token", "lookup"},
			TokenLogin: []string{"vault", "login", "-"},
		}}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("service without any login", func(t *testing.T) {
		cfg := valid()
		cfg.Services = map[string]ServiceConfig{"vault": {Check: []string{"vault", "token", "lookup"}}}
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_ServiceDescriptors(t *testing.T) {
	cfg := &Config{Services: map[string]ServiceConfig{
		"vault": {
			Check:    []string{"/usr/local/bin/vault", "token", "lookup"},
			Login:    []string{"vault", "login"},
			TokenEnv: "VAULT_TOKEN",
		},
		"artifactory": {
			Binary: "jf",
			Check:  []string{"jf", "rt", "ping"},
			Login:  []string{"jf", "login"},
		},
	}}

	descs := cfg.ServiceDescriptors()
	require.Len(t, descs, 2)

	assert.Equal(t, "artifactory", descs[0].Name)
	assert.Equal(t, "jf", descs[0].Binary)

	assert.Equal(t, "vault", descs[1].Name)
	assert.Equal(t, "vault", descs[1].Binary)
	assert.Equal(t, adapter.Command{"vault", "login"}, descs[1].Login)
	assert.Equal(t, "VAULT_TOKEN", descs[1].TokenEnv)
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"cache.dir is valid", "cache.dir", nil},
		{"cache.ttl is valid", "cache.ttl", nil},
		{"session.ttl is valid", "session.ttl", nil},
		{"auth.interactive is valid", "auth.interactive", nil},
		{"auth is valid", "auth", nil},
		{"services is valid", "services", nil},
		{"services.vault is valid", "services.vault", nil},
		{"services.vault.check is valid", "services.vault.check", nil},
		{"services.vault.bogus returns error", "services.vault.bogus", ErrInvalidKey},
		{"unknown.key returns error", "unknown.key", ErrInvalidKey},
		{"empty key returns error", "", ErrInvalidKey},
		{"random key returns error", "foo", ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	isolate(t)
	xdg.Reload()
	home := xdg.Home

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"expands ~/ prefix", "~/foo", filepath.Join(home, "foo")},
		{"expands ~ alone", "~", home},
		{"preserves absolute path", "/absolute/path", "/absolute/path"},
		{"preserves relative path", "relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}
