// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Service() ServiceConfig
	Locators() LocatorConfig
	Key() KeyConfig

	// Browser Setters
	SetBrowserHeadless(bool)

	// Key Setters
	SetKeyPath(string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	BrowserCfg  BrowserConfig `mapstructure:"browser" yaml:"browser"`
	ServiceCfg  ServiceConfig `mapstructure:"service" yaml:"service"`
	LocatorsCfg LocatorConfig `mapstructure:"locators" yaml:"locators"`
	KeyCfg      KeyConfig     `mapstructure:"key" yaml:"key"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig    { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig  { return c.BrowserCfg }
func (c *Config) Service() ServiceConfig  { return c.ServiceCfg }
func (c *Config) Locators() LocatorConfig { return c.LocatorsCfg }
func (c *Config) Key() KeyConfig          { return c.KeyCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserHeadless(b bool) { c.BrowserCfg.Headless = b }
func (c *Config) SetKeyPath(p string)       { c.KeyCfg.Path = p }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the browser instance that drives the workflow.
type BrowserConfig struct {
	Headless          bool           `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	UserAgent         string         `mapstructure:"user_agent" yaml:"user_agent"`
	Args              []string       `mapstructure:"args" yaml:"args"`
	Viewport          map[string]int `mapstructure:"viewport" yaml:"viewport"`
	NavigationTimeout time.Duration  `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	Humanoid          HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
}

// ServiceConfig names the external service and the paths the workflow visits
// or recognizes on it.
type ServiceConfig struct {
	BaseURL                string `mapstructure:"base_url" yaml:"base_url"`
	LoginPath              string `mapstructure:"login_path" yaml:"login_path"`
	SessionPath            string `mapstructure:"session_path" yaml:"session_path"`
	DeviceVerificationPath string `mapstructure:"device_verification_path" yaml:"device_verification_path"`
	NewKeyPath             string `mapstructure:"new_key_path" yaml:"new_key_path"`
	KeysPath               string `mapstructure:"keys_path" yaml:"keys_path"`
}

// LoginURL returns the absolute URL of the sign-in form.
func (s ServiceConfig) LoginURL() string { return s.join(s.LoginPath) }

// NewKeyURL returns the absolute URL of the key creation form.
func (s ServiceConfig) NewKeyURL() string { return s.join(s.NewKeyPath) }

func (s ServiceConfig) join(path string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// LocatorConfig is the selector table for the target service's markup.
// Markup drift on the service side is fixed here, not in the flows.
type LocatorConfig struct {
	LoginField    string `mapstructure:"login_field" yaml:"login_field"`
	PasswordField string `mapstructure:"password_field" yaml:"password_field"`
	LoginSubmit   string `mapstructure:"login_submit" yaml:"login_submit"`
	KeyTitleField string `mapstructure:"key_title_field" yaml:"key_title_field"`
	KeyField      string `mapstructure:"key_field" yaml:"key_field"`
	KeySubmit     string `mapstructure:"key_submit" yaml:"key_submit"`
	ErrorBanner   string `mapstructure:"error_banner" yaml:"error_banner"`
}

// KeyConfig locates the public key to enroll and how to label it.
type KeyConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Title string `mapstructure:"title" yaml:"title"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ghkey")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.viewport", map[string]int{"width": 1366, "height": 768})
	setHumanoidDefaults(v)

	// -- Service --
	v.SetDefault("service.base_url", "https://github.com")
	v.SetDefault("service.login_path", "/login")
	v.SetDefault("service.session_path", "/session")
	v.SetDefault("service.device_verification_path", "/sessions/verified-device")
	v.SetDefault("service.new_key_path", "/settings/ssh/new")
	v.SetDefault("service.keys_path", "/settings/keys")

	// -- Locators --
	v.SetDefault("locators.login_field", `input[name="login"]`)
	v.SetDefault("locators.password_field", `input[name="password"]`)
	v.SetDefault("locators.login_submit", `input[name="commit"]`)
	v.SetDefault("locators.key_title_field", `input[name="public_key[title]"]`)
	v.SetDefault("locators.key_field", `textarea[name="public_key[key]"]`)
	v.SetDefault("locators.key_submit", `.form-group + .mb-0 button`)
	v.SetDefault("locators.error_banner", `.flash-error:not([hidden])`)

	// -- Key --
	v.SetDefault("key.path", "~/.ssh/id_rsa.pub")
	v.SetDefault("key.title", defaultKeyTitle())
}

func defaultKeyTitle() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "ghkey"
	}
	return "ghkey@" + host
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.ServiceCfg.Validate(); err != nil {
		return fmt.Errorf("service configuration invalid: %w", err)
	}
	if err := c.LocatorsCfg.Validate(); err != nil {
		return fmt.Errorf("locators configuration invalid: %w", err)
	}
	if err := c.BrowserCfg.Humanoid.Validate(); err != nil {
		return fmt.Errorf("browser.humanoid configuration invalid: %w", err)
	}
	if c.KeyCfg.Path == "" {
		return errors.New("key.path is required")
	}
	return nil
}

// Validate checks the service URL and paths.
func (s *ServiceConfig) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", s.BaseURL)
	}
	if s.LoginPath == "" || s.NewKeyPath == "" || s.KeysPath == "" || s.DeviceVerificationPath == "" {
		return errors.New("login_path, new_key_path, keys_path and device_verification_path are required")
	}
	return nil
}

// Validate ensures every locator the flows depend on is set. The key title
// field is optional.
func (l *LocatorConfig) Validate() error {
	required := map[string]string{
		"login_field":    l.LoginField,
		"password_field": l.PasswordField,
		"login_submit":   l.LoginSubmit,
		"key_field":      l.KeyField,
		"key_submit":     l.KeySubmit,
		"error_banner":   l.ErrorBanner,
	}
	var missing []string
	for name, sel := range required {
		if strings.TrimSpace(sel) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing locators: %s", strings.Join(missing, ", "))
	}
	return nil
}
