package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "lensfeed"
	defaultDBCharset  = "utf8mb4"
	defaultRedisURL   = "redis://localhost:6379/0"
	defaultModelsDir  = "models"
	defaultThreshold  = 0.5
)

// AppConfig holds runtime startup configuration loaded from YAML, with
// LENS_*-prefixed environment variables taking precedence.
type AppConfig struct {
	Port           int              `yaml:"port"`
	DSN            string           `yaml:"dsn"` // MySQL DSN, overrides Database block
	Database       DatabaseConfig   `yaml:"database"`
	RedisURL       string           `yaml:"redis_url"`
	Env            string           `yaml:"env"` // "development" | "production"
	AllowedOrigins []string         `yaml:"allowed_origins"`
	Paths          PathsConfig      `yaml:"paths"`
	Moderation     ModerationConfig `yaml:"moderation"`
}

type DatabaseConfig struct {
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Params   map[string]string `yaml:"params"`
}

type PathsConfig struct {
	Logs   string `yaml:"logs"`
	Models string `yaml:"models"` // fitted model artifacts
}

// ModerationConfig carries moderation engine startup knobs. DefaultThreshold
// only seeds the threshold option on first boot; the live value is managed
// by the settings service afterwards.
type ModerationConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold"`
}

// Load reads the YAML config file, applies defaults and environment
// overrides, and validates the result. A missing file is not an error: the
// defaults plus environment are enough to boot a development instance.
func Load(path string) (*AppConfig, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	cfg := AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		RedisURL: defaultRedisURL,
		Paths:    PathsConfig{Models: defaultModelsDir},
		Moderation: ModerationConfig{
			DefaultThreshold: defaultThreshold,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Moderation.DefaultThreshold <= 0 || cfg.Moderation.DefaultThreshold > 1 {
		return nil, fmt.Errorf("invalid default threshold %v, must be in (0,1]", cfg.Moderation.DefaultThreshold)
	}
	if strings.TrimSpace(cfg.Paths.Models) == "" {
		cfg.Paths.Models = defaultModelsDir
	}

	return &cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("LENS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("LENS_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("LENS_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("LENS_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LENS_MODELS_DIR"); v != "" {
		cfg.Paths.Models = v
	}
	if v := os.Getenv("LENS_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}
