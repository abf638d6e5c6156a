package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gwi.com/voicepilot/internal/store"
)

type Config struct {
	DatabaseURL     string
	HTTPPort        string
	LogLevel        string
	ClientConfig    string
	ShutdownTimeout time.Duration

	// Client is built from DatabaseURL and the optional ClientConfig file.
	Client store.ClientOptions
}

var AppConfig Config

// clientFile is the YAML layout of CLIENT_CONFIG.
type clientFile struct {
	Log         []store.LogDefinition    `yaml:"log"`
	Transaction store.TransactionOptions `yaml:"transaction"`
	Omit        map[string][]string      `yaml:"omit"`
}

// LoadConfig loads the configuration into AppConfig.
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load reads .env (when present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	cfg := Config{
		DatabaseURL:     getEnv("DATABASE_URL", "file:voicepilot.db"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		ClientConfig:    getEnv("CLIENT_CONFIG", ""),
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must not be empty")
	}

	cfg.Client.DatasourceURL = cfg.DatabaseURL
	if cfg.ClientConfig != "" {
		if err := loadClientFile(cfg.ClientConfig, &cfg.Client); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func loadClientFile(path string, opts *store.ClientOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read client config: %w", err)
	}
	var f clientFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse client config %s: %w", path, err)
	}
	omit, err := store.ParseGlobalOmit(f.Omit)
	if err != nil {
		return fmt.Errorf("invalid omit in client config %s: %w", path, err)
	}
	opts.Log = f.Log
	opts.Transaction = f.Transaction
	opts.Omit = omit
	return nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown names fall back to
// info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
