// Package config loads the server configuration from YAML on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	OCR        OCRConfig
	MarketData MarketDataConfig
	Log        LogConfig
	Locale     LocaleConfig
}

type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

type SessionConfig struct {
	// Secret derives the cookie keys. Empty means a random secret per
	// process, which logs everyone out on restart.
	Secret string
	MaxAge time.Duration
	Secure bool
}

type OCRConfig struct {
	Engine   string // tesseract or static
	Language string
}

type MarketDataConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type LocaleConfig struct {
	Default string
}

// Default provides sane defaults if the config file is partial or missing.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
		},
		Session: SessionConfig{
			MaxAge: 12 * time.Hour,
		},
		OCR: OCRConfig{
			Engine:   "tesseract",
			Language: "eng",
		},
		MarketData: MarketDataConfig{
			BaseURL: "https://query1.finance.yahoo.com",
			Timeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Locale: LocaleConfig{
			Default: "en",
		},
	}
}

// Load reads path and applies its values on top of Default. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config.load %s: %w", path, err)
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, fmt.Errorf("config.load %s: %w", path, err)
	}
	if err := y.apply(&cfg); err != nil {
		return cfg, fmt.Errorf("config.load %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail at request time.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	if c.Session.MaxAge <= 0 {
		return errors.New("session.max_age_seconds must be positive")
	}
	switch c.OCR.Engine {
	case "tesseract", "static":
	default:
		return fmt.Errorf("ocr.engine must be tesseract or static, got %q", c.OCR.Engine)
	}
	if c.MarketData.Timeout <= 0 {
		return errors.New("market_data.timeout must be positive")
	}
	return nil
}

type yamlConfig struct {
	Server struct {
		Addr           string `yaml:"addr"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	} `yaml:"server"`

	Session struct {
		Secret string `yaml:"secret"`
		MaxAge int    `yaml:"max_age_seconds"`
		Secure *bool  `yaml:"secure"`
	} `yaml:"session"`

	OCR struct {
		Engine   string `yaml:"engine"`
		Language string `yaml:"language"`
	} `yaml:"ocr"`

	MarketData struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"market_data"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Locale struct {
		Default string `yaml:"default"`
	} `yaml:"locale"`
}

func (y yamlConfig) apply(cfg *Config) error {
	if y.Server.Addr != "" {
		cfg.Server.Addr = y.Server.Addr
	}
	if y.Server.MaxUploadBytes != 0 {
		cfg.Server.MaxUploadBytes = y.Server.MaxUploadBytes
	}
	if y.Session.Secret != "" {
		cfg.Session.Secret = y.Session.Secret
	}
	if y.Session.MaxAge != 0 {
		cfg.Session.MaxAge = time.Duration(y.Session.MaxAge) * time.Second
	}
	if y.Session.Secure != nil {
		cfg.Session.Secure = *y.Session.Secure
	}
	if y.OCR.Engine != "" {
		cfg.OCR.Engine = y.OCR.Engine
	}
	if y.OCR.Language != "" {
		cfg.OCR.Language = y.OCR.Language
	}
	if y.MarketData.BaseURL != "" {
		cfg.MarketData.BaseURL = y.MarketData.BaseURL
	}
	if y.MarketData.Timeout != "" {
		d, err := time.ParseDuration(y.MarketData.Timeout)
		if err != nil {
			return fmt.Errorf("market_data.timeout: %w", err)
		}
		cfg.MarketData.Timeout = d
	}
	if y.Log.Level != "" {
		cfg.Log.Level = y.Log.Level
	}
	if y.Log.File != "" {
		cfg.Log.File = y.Log.File
	}
	if y.Locale.Default != "" {
		cfg.Locale.Default = y.Locale.Default
	}
	return nil
}
