// Package config loads the bonus engine configuration from bonus.yaml,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/warp/bonus-engine/generic"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory.
const DefaultConfigFile = "bonus.yaml"

// Environment variables that override the file.
const (
	EnvAddr = "BONUS_ADDR"
	EnvDB   = "BONUS_DB"
)

// Config represents the contents of bonus.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Catalog CatalogConfig `yaml:"catalog"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig overrides the built-in rule tables. Each field replaces
// the default table as a whole when present.
type CatalogConfig struct {
	Categories     map[string]string `yaml:"categories"`
	SalesOrder     map[string]int    `yaml:"sales_order"`
	CosmeticBrands []generic.Brand   `yaml:"cosmetic_brands"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Store: StoreConfig{Path: "bonus.db"},
	}
}

// Load reads .env (if present), then the YAML file at path (defaults when
// it does not exist), then the BONUS_* environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		cfg.Store.Path = v
	}

	if _, err := cfg.BuildCatalog(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildCatalog merges the overrides onto the default catalog.
func (c *Config) BuildCatalog() (*generic.Catalog, error) {
	cat := generic.DefaultCatalog()
	if len(c.Catalog.Categories) > 0 {
		cat.Categories = c.Catalog.Categories
	}
	if len(c.Catalog.SalesOrder) > 0 {
		cat.SalesOrder = c.Catalog.SalesOrder
	}
	if len(c.Catalog.CosmeticBrands) > 0 {
		cat.Brands = c.Catalog.CosmeticBrands
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return cat, nil
}
