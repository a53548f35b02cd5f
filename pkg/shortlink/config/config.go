package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root application configuration.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Fallback FallbackConfig `koanf:"fallback"`
	Log      LogConfig      `koanf:"log"`
}

// AppConfig holds server settings.
type AppConfig struct {
	Port          string `koanf:"port"`
	DefaultDomain string `koanf:"default_domain"`
	CodeLength    int    `koanf:"code_length"`
	SnowflakeNode int64  `koanf:"snowflake_node"`
	AdminUserID   string `koanf:"admin_user_id"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// FallbackConfig holds external shortener settings.
type FallbackConfig struct {
	TinyURLAPIKey string `koanf:"tinyurl_api_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// envMapping maps environment variable names to config keys. Unknown
// variables are ignored.
var envMapping = map[string]string{
	"app_port":            "app.port",
	"app_default_domain":  "app.default_domain",
	"app_code_length":     "app.code_length",
	"app_snowflake_node":  "app.snowflake_node",
	"app_admin_user_id":   "app.admin_user_id",
	"database_path":       "database.path",
	"tinyurl_api_key":     "fallback.tinyurl_api_key",
	"log_level":           "log.level",
	"log_pretty":          "log.pretty",
}

// Load reads the YAML config file (path from CONFIG_PATH, default
// config/local.yaml), then overrides values from the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yaml"
	}

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", configPath, err)
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		TransformFunc: func(key, value string) (string, any) {
			if mapped, ok := envMapping[strings.ToLower(key)]; ok {
				return mapped, value
			}
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}
