package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edvance/edvance-backend/internal/pkg/envutil"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type Config struct {
	Port        string `yaml:"port"`
	LogMode     string `yaml:"log_mode"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// LoadConfig reads the optional YAML file named by CONFIG_FILE, then lets
// environment variables override individual fields.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:        "8080",
		LogMode:     "development",
		Environment: "development",
		Version:     "dev",
	}

	if path := envutil.GetEnv("CONFIG_FILE", "", log); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Config file loaded", "path", path)
	}

	cfg.Port = envutil.GetEnv("PORT", cfg.Port, log)
	cfg.LogMode = envutil.GetEnv("LOG_MODE", cfg.LogMode, log)
	cfg.Environment = envutil.GetEnv("ENVIRONMENT", cfg.Environment, log)
	cfg.Version = envutil.GetEnv("VERSION", cfg.Version, log)
	return cfg, nil
}
