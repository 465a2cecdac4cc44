package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDriver    string        `yaml:"dbDriver"`
	DBSource    string        `yaml:"dbSource"`
	Port        string        `yaml:"port"`
	JWTSecret   string        `yaml:"jwtSecret"`
	JWTTTL      time.Duration `yaml:"jwtTTL"`
	ClientURL   string        `yaml:"clientURL"`
	RabbitMQURL string        `yaml:"rabbitmqURL"`
	LogLevel    string        `yaml:"logLevel"`
	LogFormat   string        `yaml:"logFormat"`
	GinMode     string        `yaml:"ginMode"`

	// first admin, seeded only when both are set
	AdminUsername string `yaml:"adminUsername"`
	AdminPassword string `yaml:"adminPassword"`
}

func defaultConfig() *Config {
	return &Config{
		DBDriver:  "sqlite",
		DBSource:  "restaurant.db",
		Port:      "8000",
		JWTSecret: "changeme",
		JWTTTL:    24 * time.Hour,
		ClientURL: "http://localhost:3000",
		LogLevel:  "info",
		LogFormat: "json",
		GinMode:   "release",
	}
}

// LoadConfig builds the config from defaults, an optional YAML file named by
// CONFIG_FILE, then the environment (.env is loaded when present).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := fromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func fromEnv(cfg *Config) error {
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBSource = getEnv("DB_SOURCE", cfg.DBSource)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.ClientURL = getEnv("CLIENT_URL", cfg.ClientURL)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.AdminUsername = getEnv("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)

	if v, ok := os.LookupEnv("JWT_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL %q: %w", v, err)
		}
		cfg.JWTTTL = d
	}
	return nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(c.DBDriver)
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q (sqlite|postgres)", c.DBDriver)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.JWTSecret == "changeme" {
		slog.Warn("JWT_SECRET is not set, using the development default")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
