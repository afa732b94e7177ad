package bot

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/cafebot/core/config"
	coredatabase "github.com/m3rciful/cafebot/core/database"
)

const defaultContentPath = "configs/content.yaml"

// ContentConfig points at the cafe content file.
type ContentConfig struct {
	Path string `yaml:"path" envconfig:"CONTENT_PATH"`
}

// Config is the full configuration of the cafe bot.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Content  ContentConfig       `yaml:"content"`
}

// CoreConfig exposes the embedded framework configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads path, applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Content.Path) == "" {
		cfg.Content.Path = defaultContentPath
	}
	if cfg.Session.Backend == coreconfig.SessionBackendPostgres {
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return nil, fmt.Errorf("database.host and database.name are required when session.backend is 'postgres'")
		}
	}
	return &cfg, nil
}
