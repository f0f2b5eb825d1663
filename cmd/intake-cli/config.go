package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the CLI settings loadable from a YAML file. Flags override
// file values, and the file itself is optional.
type Config struct {
	OpenAI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`
	Gotenberg struct {
		URL string `yaml:"url"`
	} `yaml:"gotenberg"`
	Database string `yaml:"database"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// envOr falls back through an environment variable to a default.
func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
