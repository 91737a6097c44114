package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DevUser is a token→user mapping served by the static identity provider
// when no external auth service is configured.
type DevUser struct {
	Token       string `yaml:"token"`
	UserID      string `yaml:"user_id"`
	DisplayName string `yaml:"display_name"`
}

// Config holds the service configuration. Values come from an optional
// YAML file with environment-variable overrides on top, so a baked-in
// file can still be tweaked per deployment.
type Config struct {
	// Listen is the HTTP bind address, e.g. ":8080".
	Listen string `yaml:"listen"`

	// DBPath is the local SQLite file backing the record store.
	DBPath string `yaml:"db_path"`

	// AuthURL is the base URL of the external auth provider's session
	// introspection API. Empty means the static dev provider is used.
	AuthURL string `yaml:"auth_url"`

	DevUsers []DevUser `yaml:"dev_users"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads the YAML file at path (ignored when missing or empty) and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Listen: ":8080",
		DBPath: "jobbook.db",
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// A missing file is fine; env and defaults carry the config.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	cfg.DBPath = getEnv("JOBBOOK_DB", cfg.DBPath)
	cfg.AuthURL = getEnv("AUTH_URL", cfg.AuthURL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if token := os.Getenv("DEV_TOKEN"); token != "" {
		cfg.DevUsers = append(cfg.DevUsers, DevUser{
			Token:       token,
			UserID:      getEnv("DEV_USER_ID", "dev"),
			DisplayName: os.Getenv("DEV_USER_NAME"),
		})
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
