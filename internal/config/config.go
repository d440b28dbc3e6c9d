package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "photoalbum"
	configFileName = "config.yaml"

	DefaultAPIBaseURL = "http://localhost:5000/api"
)

// Config holds all configuration for the application
type Config struct {
	// Remote API Configuration
	API APIConfig `yaml:"api"`

	// Durable Storage Configuration
	Storage StorageConfig `yaml:"storage"`

	// Web Front Configuration
	Web WebConfig `yaml:"web"`

	// Logging Configuration
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds the remote photo API settings
type APIConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// Zero means requests never time out
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// StorageConfig selects and configures the durable key-value backend
type StorageConfig struct {
	Backend    string      `yaml:"backend" validate:"required,oneof=file keyring redis sqlite memory"`
	Path       string      `yaml:"path"`
	SQLitePath string      `yaml:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address  string `yaml:"address"` // Redis address (host:port)
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// WebConfig holds the HTTP front settings
type WebConfig struct {
	Address     string   `yaml:"address" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"` // json, console
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	dir := configDir()

	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
		},
		Storage: StorageConfig{
			Backend:    "file",
			Path:       filepath.Join(dir, "storage.json"),
			SQLitePath: filepath.Join(dir, "storage.sqlite"),
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
		},
		Web: WebConfig{
			Address:     ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// configDir returns ~/.config/photoalbum, or the working directory if home is unknown
func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", configDirName)
}

// Path returns the YAML config file location, honoring ALBUM_CONFIG
func Path() string {
	if p := os.Getenv("ALBUM_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), configFileName)
}

// Load loads configuration from .env files, the YAML config file and the environment,
// in increasing order of precedence
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := Default()

	if err := cfg.mergeFile(Path()); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeFile overlays the YAML file at path onto cfg. A missing file is not an error.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid API_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}

	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}

	// Redis address - default to localhost:6379, allow override for dev/docker
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		c.Storage.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Storage.Redis.DB = db
	}

	if v := os.Getenv("WEB_ADDRESS"); v != "" {
		c.Web.Address = v
	}
	if v := os.Getenv("WEB_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Web.CORSOrigins = origins
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}

	return nil
}

// Validate checks the configuration for missing or malformed values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("invalid configuration: storage path is required for the file backend")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("invalid configuration: sqlite path is required for the sqlite backend")
		}
	case "redis":
		if c.Storage.Redis.Address == "" {
			return fmt.Errorf("invalid configuration: redis address is required for the redis backend")
		}
	}

	return nil
}
