package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is loaded from YAML with environment overrides for secrets.
type Config struct {
	Port             string `yaml:"port"`
	DatabaseURL      string `yaml:"databaseURL"`
	LogLevel         string `yaml:"logLevel"`
	JWTSecret        string `yaml:"jwtSecret"`
	TokenTTLMinutes  int    `yaml:"tokenTTLMinutes"`
	RedisAddr        string `yaml:"redisAddr"`
	RedisPassword    string `yaml:"redisPassword"`
	RateLimit        int    `yaml:"rateLimit"`
	RateWindowSecs   int    `yaml:"rateWindowSeconds"`
	SameDayUpdates   *bool  `yaml:"sameDayUpdates"`
	GoogleClientID   string `yaml:"googleClientID"`
	GoogleSecret     string `yaml:"googleClientSecret"`
	GoogleRedirect   string `yaml:"googleRedirectURL"`
	GoogleToken      string `yaml:"googleToken"`
	SyncSchedule     string `yaml:"syncSchedule"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.GoogleSecret = v
	}
	if v := os.Getenv("GOOGLE_TOKEN"); v != "" {
		cfg.GoogleToken = v
	}
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TokenTTLMinutes = n
		}
	}

	if cfg.TokenTTLMinutes <= 0 {
		cfg.TokenTTLMinutes = 24 * 60
	}
	if cfg.RateWindowSecs <= 0 {
		cfg.RateWindowSecs = 60
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: jwtSecret is required (set in config.yaml or JWT_SECRET)")
	}
	return nil
}
