// Package config assembles process settings from a .env file, an optional
// YAML file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/defectrack/defectrack/internal/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	DBDriver       string   `yaml:"db_driver"`
	DatabaseURL    string   `yaml:"database_url"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Default() *Config {
	return &Config{
		Port:     "3000",
		DBDriver: "postgres",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		log.Println(".env file not found, using process environment")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.DBDriver = driver
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.DatabaseURL = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWTSecret = secret
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = types.AllowedOriginsFromEnv()
	}
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}
