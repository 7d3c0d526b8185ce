package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	AllowOrigins string `yaml:"allow_origins"`
}

type DatabaseConfig struct {
	URI             string `yaml:"uri"`
	Name            string `yaml:"name"`
	UseTransactions bool   `yaml:"use_transactions"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// StorageConfig selects the media backend. Backend is "local" or "s3".
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	LocalDir  string `yaml:"local_dir"`
	PublicURL string `yaml:"public_url"`
	AWSRegion string `yaml:"aws_region"`
	S3Bucket  string `yaml:"s3_bucket"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file. A missing file is not an error;
// defaults and environment variables are enough to run locally.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			AllowOrigins: "http://localhost:5173",
		},
		Database: DatabaseConfig{
			URI:  "mongodb://localhost:27017",
			Name: "linkup",
		},
		JWT: JWTConfig{
			Secret: "fallback-secret-key",
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalDir:  "./uploads",
			PublicURL: "/uploads",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyEnv lets deployment environments override the file without editing it.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
}
