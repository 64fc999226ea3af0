package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/blog/config"
	ConfigFileName    = "blog.yml"
)

// ValidRoles is the list of roles a user account may hold
var ValidRoles = []string{"admin", "moderator", "regular-user"}

// BlogConfig holds all application settings
type BlogConfig struct {
	// Domain is the public hostname used when composing absolute URLs
	Domain string `yaml:"domain" json:"domain"`

	// APIVersion is the version segment of the URL prefix (/api/v{N}/)
	APIVersion int `yaml:"api_version" json:"api_version"`

	// SecretKey signs access tokens
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	// ActivationSecretKey keys the account activation/password reset tokens
	ActivationSecretKey string `yaml:"activation_secret_key" json:"activation_secret_key"`

	// AccessTokenExpireMinutes is the access token TTL in minutes
	AccessTokenExpireMinutes int `yaml:"access_token_expire_minutes" json:"access_token_expire_minutes"`

	// AccountTokenTimeout is the activation/reset token TTL in seconds
	AccountTokenTimeout int `yaml:"account_token_timeout" json:"account_token_timeout"`

	// RedisURL is the Redis connection URL used for the cache and task queue
	RedisURL string `yaml:"redis_url" json:"redis_url"`

	// CacheTTL is the response cache TTL in seconds
	CacheTTL int `yaml:"cache_ttl" json:"cache_ttl"`

	// APIListLimitMax is the maximum page size for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// WorkerConcurrency is the number of concurrent task workers
	WorkerConcurrency int `yaml:"worker_concurrency" json:"worker_concurrency"`

	// StaticDir is the directory that holds uploaded static files
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	// Email delivery settings
	EmailHost     string `yaml:"email_host" json:"email_host"`
	EmailPort     int    `yaml:"email_port" json:"email_port"`
	EmailFrom     string `yaml:"email_from" json:"email_from"`
	EmailPassword string `yaml:"email_password" json:"email_password"`
	AdminEmail    string `yaml:"admin_email" json:"admin_email"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *BlogConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *BlogConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *BlogConfig {
	return &BlogConfig{
		Domain:                   "localhost",
		APIVersion:               1,
		AccessTokenExpireMinutes: 30,
		AccountTokenTimeout:      3600,
		RedisURL:                 "redis://localhost:6379/0",
		CacheTTL:                 300,
		APIListLimitMax:          100,
		WorkerConcurrency:        10,
		StaticDir:                "/vol/static",
		EmailPort:                465,
		sources:                  make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*BlogConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("BLOG_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig BlogConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"domain", "api_version", "secret_key", "activation_secret_key",
		"access_token_expire_minutes", "account_token_timeout", "redis_url",
		"cache_ttl", "api_list_limit_max", "worker_concurrency", "static_dir",
		"email_host", "email_port", "email_from", "email_password", "admin_email",
	}
}

func (c *BlogConfig) applyFileConfig(file *BlogConfig) {
	if file.Domain != "" {
		c.Domain = file.Domain
		c.sources["domain"] = "file"
	}
	if file.APIVersion != 0 {
		c.APIVersion = file.APIVersion
		c.sources["api_version"] = "file"
	}
	if file.SecretKey != "" {
		c.SecretKey = file.SecretKey
		c.sources["secret_key"] = "file"
	}
	if file.ActivationSecretKey != "" {
		c.ActivationSecretKey = file.ActivationSecretKey
		c.sources["activation_secret_key"] = "file"
	}
	if file.AccessTokenExpireMinutes != 0 {
		c.AccessTokenExpireMinutes = file.AccessTokenExpireMinutes
		c.sources["access_token_expire_minutes"] = "file"
	}
	if file.AccountTokenTimeout != 0 {
		c.AccountTokenTimeout = file.AccountTokenTimeout
		c.sources["account_token_timeout"] = "file"
	}
	if file.RedisURL != "" {
		c.RedisURL = file.RedisURL
		c.sources["redis_url"] = "file"
	}
	if file.CacheTTL != 0 {
		c.CacheTTL = file.CacheTTL
		c.sources["cache_ttl"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.WorkerConcurrency != 0 {
		c.WorkerConcurrency = file.WorkerConcurrency
		c.sources["worker_concurrency"] = "file"
	}
	if file.StaticDir != "" {
		c.StaticDir = file.StaticDir
		c.sources["static_dir"] = "file"
	}
	if file.EmailHost != "" {
		c.EmailHost = file.EmailHost
		c.sources["email_host"] = "file"
	}
	if file.EmailPort != 0 {
		c.EmailPort = file.EmailPort
		c.sources["email_port"] = "file"
	}
	if file.EmailFrom != "" {
		c.EmailFrom = file.EmailFrom
		c.sources["email_from"] = "file"
	}
	if file.EmailPassword != "" {
		c.EmailPassword = file.EmailPassword
		c.sources["email_password"] = "file"
	}
	if file.AdminEmail != "" {
		c.AdminEmail = file.AdminEmail
		c.sources["admin_email"] = "file"
	}
}

func (c *BlogConfig) applyEnvConfig() {
	if val := os.Getenv("DOMAIN"); val != "" {
		c.Domain = val
		c.sources["domain"] = "environment"
	}
	if val := os.Getenv("API_VERSION"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIVersion = i
			c.sources["api_version"] = "environment"
		}
	}
	if val := os.Getenv("SECRET_KEY"); val != "" {
		c.SecretKey = val
		c.sources["secret_key"] = "environment"
	}
	if val := os.Getenv("SECRET_KEY_TOKEN_GENERATOR"); val != "" {
		c.ActivationSecretKey = val
		c.sources["activation_secret_key"] = "environment"
	}
	if val := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenExpireMinutes = i
			c.sources["access_token_expire_minutes"] = "environment"
		}
	}
	if val := os.Getenv("TOKEN_EXPIRED_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccountTokenTimeout = i
			c.sources["account_token_timeout"] = "environment"
		}
	}
	// CELERY_BROKER_URL_PROD is accepted for compatibility with the
	// deployment manifests that predate the Go rewrite
	for _, env := range []string{"REDIS_URL", "CELERY_BROKER_URL_PROD"} {
		if val := os.Getenv(env); val != "" {
			c.RedisURL = val
			c.sources["redis_url"] = "environment"
			break
		}
	}
	if val := os.Getenv("CACHE_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.CacheTTL = i
			c.sources["cache_ttl"] = "environment"
		}
	}
	if val := os.Getenv("API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("WORKER_CONCURRENCY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.WorkerConcurrency = i
			c.sources["worker_concurrency"] = "environment"
		}
	}
	if val := os.Getenv("STATIC_DIR"); val != "" {
		c.StaticDir = val
		c.sources["static_dir"] = "environment"
	}
	if val := os.Getenv("EMAIL_HOST"); val != "" {
		c.EmailHost = val
		c.sources["email_host"] = "environment"
	}
	if val := os.Getenv("EMAIL_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.EmailPort = i
			c.sources["email_port"] = "environment"
		}
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.EmailFrom = val
		c.sources["email_from"] = "environment"
	}
	if val := os.Getenv("EMAIL_PASSWORD"); val != "" {
		c.EmailPassword = val
		c.sources["email_password"] = "environment"
	}
	if val := os.Getenv("ADMIN_EMAIL"); val != "" {
		c.AdminEmail = val
		c.sources["admin_email"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *BlogConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *BlogConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// AccessTokenTTL returns the access token TTL as a duration
func (c *BlogConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// AccountTokenTTL returns the activation/reset token TTL as a duration
func (c *BlogConfig) AccountTokenTTL() time.Duration {
	return time.Duration(c.AccountTokenTimeout) * time.Second
}

// CacheExpiry returns the response cache TTL as a duration
func (c *BlogConfig) CacheExpiry() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// APIPrefix returns the versioned URL prefix, e.g. /api/v1
func (c *BlogConfig) APIPrefix() string {
	return fmt.Sprintf("/api/v%d", c.APIVersion)
}

// Validate validates the configuration
func (c *BlogConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key is required (SECRET_KEY)")
	}
	if c.ActivationSecretKey == "" {
		return fmt.Errorf("activation_secret_key is required (SECRET_KEY_TOKEN_GENERATOR)")
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("access_token_expire_minutes must be positive")
	}
	if c.AccountTokenTimeout <= 0 {
		return fmt.Errorf("account_token_timeout must be positive")
	}
	if c.EmailPort < 0 || c.EmailPort > 65535 {
		return fmt.Errorf("invalid email_port: %d", c.EmailPort)
	}
	if !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("invalid redis_url: %s", c.RedisURL)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *BlogConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "domain", Value: c.Domain, Source: c.Source("domain")},
		{Name: "api_version", Value: strconv.Itoa(c.APIVersion), Source: c.Source("api_version")},
		{Name: "secret_key", Value: redact(c.SecretKey), Source: c.Source("secret_key")},
		{Name: "activation_secret_key", Value: redact(c.ActivationSecretKey), Source: c.Source("activation_secret_key")},
		{Name: "access_token_expire_minutes", Value: strconv.Itoa(c.AccessTokenExpireMinutes), Source: c.Source("access_token_expire_minutes")},
		{Name: "account_token_timeout", Value: strconv.Itoa(c.AccountTokenTimeout), Source: c.Source("account_token_timeout")},
		{Name: "redis_url", Value: c.RedisURL, Source: c.Source("redis_url")},
		{Name: "cache_ttl", Value: strconv.Itoa(c.CacheTTL), Source: c.Source("cache_ttl")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "worker_concurrency", Value: strconv.Itoa(c.WorkerConcurrency), Source: c.Source("worker_concurrency")},
		{Name: "static_dir", Value: c.StaticDir, Source: c.Source("static_dir")},
		{Name: "email_host", Value: c.EmailHost, Source: c.Source("email_host")},
		{Name: "email_port", Value: strconv.Itoa(c.EmailPort), Source: c.Source("email_port")},
		{Name: "email_from", Value: c.EmailFrom, Source: c.Source("email_from")},
		{Name: "email_password", Value: redact(c.EmailPassword), Source: c.Source("email_password")},
		{Name: "admin_email", Value: c.AdminEmail, Source: c.Source("admin_email")},
	}
}

// FormatText returns a text representation of the configuration
func (c *BlogConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-32s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-32s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-32s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *BlogConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "(redacted)"
}
