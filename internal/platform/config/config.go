package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type GatewayConfig struct {
	Port       int    `yaml:"port"`
	BackendURL string `yaml:"backend_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
	Output string `yaml:"output"` // stdout, stderr or file
	File   string `yaml:"file"`
}

type Config struct {
	Mode    string         `yaml:"mode"`
	Server  ServerConfig   `yaml:"server"`
	Gateway GatewayConfig  `yaml:"gateway"`
	DB      DatabaseConfig `yaml:"database"`
	Logging LoggingConfig  `yaml:"logging"`
}

// Load reads a yaml config file and applies environment overrides.
// A .env file next to the binary is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)

	if cfg.Mode == "" {
		cfg.Mode = "dev"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9090
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8080
	}
	if cfg.Gateway.TimeoutSec == 0 {
		cfg.Gateway.TimeoutSec = 10
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SHAREIT_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("SHAREIT_DB_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv("SHAREIT_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.DB.Port = p
		}
	}
	if v := os.Getenv("SHAREIT_DB_USER"); v != "" {
		cfg.DB.Username = v
	}
	if v := os.Getenv("SHAREIT_DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv("SHAREIT_DB_NAME"); v != "" {
		cfg.DB.DBName = v
	}
	if v := os.Getenv("SHAREIT_SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("SHAREIT_GATEWAY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = p
		}
	}
	if v := os.Getenv("SHAREIT_BACKEND_URL"); v != "" {
		cfg.Gateway.BackendURL = v
	}
	if v := os.Getenv("SHAREIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
