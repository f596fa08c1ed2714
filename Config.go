package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ConfigError = errors.New("invalid configuration")

type Config struct {
	DatabaseFilepath string `yaml:"database_filepath"`
	ListenAddr       string `yaml:"listen_addr"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	SheetCacheSize   int    `yaml:"sheet_cache_size"`
	WebhookWorkers   int    `yaml:"webhook_workers"`
}

func DefaultConfig() Config {
	return Config{
		DatabaseFilepath: "sheets.db",
		ListenAddr:       ":8080",
		LogLevel:         "info",
		LogFormat:        "text",
		SheetCacheSize:   128,
		WebhookWorkers:   5,
	}
}

// LoadConfig reads .env (if present), then the YAML file at path (or
// $SHEET_CONFIG), then environment overrides, on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: .env: %w", ConfigError, err)
	}

	config := DefaultConfig()

	if path == "" {
		path = os.Getenv("SHEET_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ConfigError, err)
		}
		if err = yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ConfigError, path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return Config{}, err
	}

	return config, config.validate()
}

func (c *Config) applyEnv() error {
	if value, ok := lookupEnv("DATABASE_FILEPATH"); ok {
		c.DatabaseFilepath = value
	}
	if value, ok := lookupEnv("LISTEN_ADDR"); ok {
		c.ListenAddr = value
	}
	if value, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = value
	}
	if value, ok := lookupEnv("LOG_FORMAT"); ok {
		c.LogFormat = value
	}

	var err error
	if value, ok := lookupEnv("SHEET_CACHE_SIZE"); ok {
		if c.SheetCacheSize, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: SHEET_CACHE_SIZE: %w", ConfigError, err)
		}
	}
	if value, ok := lookupEnv("WEBHOOK_WORKERS"); ok {
		if c.WebhookWorkers, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: WEBHOOK_WORKERS: %w", ConfigError, err)
		}
	}

	return nil
}

func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseFilepath) == "" {
		return fmt.Errorf("%w: database filepath is empty", ConfigError)
	}
	if c.SheetCacheSize <= 0 {
		return fmt.Errorf("%w: sheet cache size must be positive, got %d", ConfigError, c.SheetCacheSize)
	}
	if c.WebhookWorkers <= 0 {
		return fmt.Errorf("%w: webhook workers must be positive, got %d", ConfigError, c.WebhookWorkers)
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log format %q is not text or json", ConfigError, c.LogFormat)
	}

	return nil
}

func (c *Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %w", ConfigError, err)
	}
	return level, nil
}

func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.logLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}
