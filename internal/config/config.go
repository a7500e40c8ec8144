package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Depot   DepotConfig   `yaml:"depot"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
}

// DepotConfig holds the shared grid settings
type DepotConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	MaxPlayers int `yaml:"max_players"`
}

// CatalogConfig holds the item catalog settings
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Depot.Width == 0 {
		cfg.Depot.Width = 10
	}
	if cfg.Depot.Height == 0 {
		cfg.Depot.Height = 6
	}
	if cfg.Depot.MaxPlayers == 0 {
		cfg.Depot.MaxPlayers = 100
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "./configs/catalog.yaml"
	}

	return &cfg, nil
}
