package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BLOG_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Domain)
	assert.Equal(t, 1, cfg.APIVersion)
	assert.Equal(t, 30, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, 100, cfg.APIListLimitMax)
	assert.Equal(t, "default", cfg.Source("domain"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOG_CONFIG_PATH", dir)

	content := []byte("domain: blog.example.com\ncache_ttl: 60\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "blog.example.com", cfg.Domain)
	assert.Equal(t, 60, cfg.CacheTTL)
	assert.Equal(t, "file", cfg.Source("domain"))
	assert.Equal(t, "file", cfg.Source("cache_ttl"))
	assert.Equal(t, "default", cfg.Source("api_version"))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOG_CONFIG_PATH", dir)

	content := []byte("domain: blog.example.com\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))
	t.Setenv("DOMAIN", "api.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "api.example.com", cfg.Domain)
	assert.Equal(t, "environment", cfg.Source("domain"))
}

func TestLegacyBrokerEnvVar(t *testing.T) {
	t.Setenv("BLOG_CONFIG_PATH", t.TempDir())
	t.Setenv("CELERY_BROKER_URL_PROD", "redis://broker:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://broker:6379/1", cfg.RedisURL)
	assert.Equal(t, "environment", cfg.Source("redis_url"))
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOG_CONFIG_PATH", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("domain: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	cfg.SecretKey = "secret"
	cfg.ActivationSecretKey = "activation-secret"
	assert.NoError(t, cfg.Validate())

	missingKey := *cfg
	missingKey.SecretKey = ""
	assert.ErrorContains(t, missingKey.Validate(), "secret_key")

	badRedis := *cfg
	badRedis.RedisURL = "localhost:6379"
	assert.ErrorContains(t, badRedis.Validate(), "redis_url")

	badExpiry := *cfg
	badExpiry.AccessTokenExpireMinutes = 0
	assert.ErrorContains(t, badExpiry.Validate(), "access_token_expire_minutes")
}

func TestDerivedValues(t *testing.T) {
	cfg := newDefault()
	cfg.AccessTokenExpireMinutes = 15
	cfg.AccountTokenTimeout = 120
	cfg.APIVersion = 2

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 2*time.Minute, cfg.AccountTokenTTL())
	assert.Equal(t, "/api/v2", cfg.APIPrefix())
}

func TestAttributesRedactSecrets(t *testing.T) {
	cfg := newDefault()
	cfg.SecretKey = "super-secret"
	cfg.EmailPassword = "smtp-password"

	for _, attr := range cfg.Attributes() {
		switch attr.Name {
		case "secret_key", "email_password":
			assert.Equal(t, "(redacted)", attr.Value)
		}
	}

	text := cfg.FormatText()
	assert.NotContains(t, text, "super-secret")
	assert.NotContains(t, text, "smtp-password")
}
