package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const AppName = "aitr"

// SourceLanguage is fixed: the backend only translates from English.
const SourceLanguage = "en"

type Config struct {
	// APIBase is the origin the /api/... paths resolve against.
	APIBase        string        `yaml:"api_base"`
	TargetLanguage string        `yaml:"target_language"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Language       string        `yaml:"language"`
	LogLevel       string        `yaml:"log_level"`
	EnableAudit    bool          `yaml:"enable_audit"`
	AuditPath      string        `yaml:"audit_path"`
	HistoryLimit   int           `yaml:"history_limit"`
}

func NewDefaultConfig() *Config {
	return &Config{
		APIBase:        "http://localhost:8000",
		TargetLanguage: "de",
		RequestTimeout: 30 * time.Second,
		Language:       "en",
		LogLevel:       "info",
		EnableAudit:    true,
		HistoryLimit:   10,
	}
}

var configPath string

// SetConfigPath overrides the XDG location, e.g. from --config.
func SetConfigPath(path string) {
	configPath = path
}

func GetConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// LoadConfig reads the YAML file (defaults when absent), then applies .env
// and AITR_* environment overrides.
func LoadConfig() (*Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", GetConfigPath(), err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AITR_API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("AITR_TARGET"); v != "" {
		c.TargetLanguage = v
	}
	if v := os.Getenv("AITR_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("AITR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("AITR_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: AITR_REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate checks the API base and normalizes empty fields to defaults.
func (c *Config) Validate() error {
	def := NewDefaultConfig()
	if strings.TrimSpace(c.APIBase) == "" {
		c.APIBase = def.APIBase
	}
	parsed, err := url.Parse(c.APIBase)
	if err != nil {
		return fmt.Errorf("config: api_base %q: %w", c.APIBase, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: api_base %q: scheme must be http or https", c.APIBase)
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: api_base %q: missing host", c.APIBase)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative")
	}
	if c.TargetLanguage == "" || c.TargetLanguage == SourceLanguage {
		c.TargetLanguage = def.TargetLanguage
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	return nil
}

func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
