package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server config
	Server ServerConfig `yaml:"server"`

	// Remote analysis/report engine
	Engine EngineConfig `yaml:"engine"`

	// CSRF and session cookie config
	Security SecurityConfig `yaml:"security"`

	// Number and currency display
	Display DisplayConfig `yaml:"display"`

	// Advisor form
	Form FormConfig `yaml:"form"`

	LogLevel string `yaml:"log_level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"` // development, staging, production
	BaseURL     string `yaml:"base_url"`
}

// EngineConfig locates the analysis engine and its two operations.
type EngineConfig struct {
	BaseURL     string        `yaml:"base_url"`
	AnalyzePath string        `yaml:"analyze_path"`
	ReportPath  string        `yaml:"report_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFSecret        string        `yaml:"-"`
	SessionCookieName string        `yaml:"session_cookie_name"`
	SessionDuration   time.Duration `yaml:"session_duration"`
	SecureCookies     bool          `yaml:"-"` // true in production
}

// DisplayConfig controls how amounts are formatted.
type DisplayConfig struct {
	Locale         string `yaml:"locale"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

// FormConfig overrides the default value of advisor form fields.
type FormConfig struct {
	Defaults map[string]string `yaml:"defaults"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func Load() (*Config, error) {
	// A missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:        getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		BaseURL:     getEnvOrDefault("BASE_URL", "http://localhost:8080"),
	}

	engineTimeout, err := time.ParseDuration(getEnvOrDefault("ENGINE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_TIMEOUT: %w", err)
	}
	cfg.Engine = EngineConfig{
		BaseURL:     os.Getenv("ENGINE_BASE_URL"),
		AnalyzePath: getEnvOrDefault("ENGINE_ANALYZE_PATH", "/analyze"),
		ReportPath:  getEnvOrDefault("ENGINE_REPORT_PATH", "/generate-report"),
		Timeout:     engineTimeout,
	}

	sessionHours, err := strconv.Atoi(getEnvOrDefault("SESSION_DURATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_DURATION_HOURS: %w", err)
	}
	cfg.Security = SecurityConfig{
		CSRFSecret:        os.Getenv("CSRF_SECRET"),
		SessionCookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "coverage_advisor_session"),
		SessionDuration:   time.Duration(sessionHours) * time.Hour,
		SecureCookies:     cfg.Server.Environment == "production",
	}

	cfg.Display = DisplayConfig{
		Locale:         getEnvOrDefault("DISPLAY_LOCALE", "en-IN"),
		CurrencySymbol: getEnvOrDefault("CURRENCY_SYMBOL", "₹"),
	}

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")

	if path := os.Getenv("ADVISOR_CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// overlayFile applies a YAML file on top of the environment. Keys absent
// from the file leave the current value alone.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Security.SecureCookies = c.Server.Environment == "production"
	return nil
}

// validate collects every configuration problem so startup reports them
// all at once.
func (c *Config) validate() error {
	var errs []error

	if c.Engine.BaseURL == "" {
		errs = append(errs, errors.New("ENGINE_BASE_URL is required"))
	} else if !strings.HasPrefix(c.Engine.BaseURL, "http://") && !strings.HasPrefix(c.Engine.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("ENGINE_BASE_URL must be an http(s) URL (got: %s)", c.Engine.BaseURL))
	}

	if c.Engine.Timeout <= 0 {
		errs = append(errs, errors.New("ENGINE_TIMEOUT must be positive"))
	}

	if c.Security.CSRFSecret == "" {
		errs = append(errs, errors.New("CSRF_SECRET is required"))
	} else if len(c.Security.CSRFSecret) < 32 {
		errs = append(errs, errors.New("CSRF_SECRET must be at least 32 characters"))
	}

	if c.Security.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION_HOURS must be positive"))
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustLoad is like Load but panics on error.
// Used in main() where its required to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
