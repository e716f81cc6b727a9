// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted by WARZONE_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config is shared by every binary; each reads the fields it needs.
type Config struct {
	SSHHost        string `env:"SSH_HOST"         envDefault:"::"`
	SSHPort        string `env:"SSH_PORT"         envDefault:"2222"`
	SSHHostKey     string `env:"SSH_HOST_KEY"     envDefault:"/app/keys/host_key"`
	SSHDisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"your-server.com"`

	WebHost string `env:"WEB_HOST" envDefault:"0.0.0.0"`
	WebPort string `env:"WEB_PORT" envDefault:"8080"`

	Store        string `env:"WARZONE_STORE"         envDefault:"file"`
	DataDir      string `env:"WARZONE_DATA_DIR"      envDefault:"data"`
	MissionsFile string `env:"WARZONE_MISSIONS_FILE"`

	AdminUser     string `env:"WARZONE_ADMIN_USER"`
	AdminPassword string `env:"WARZONE_ADMIN_PASSWORD"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Store {
	case StoreMemory, StoreFile, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("WARZONE_STORE: unknown backend %q", cfg.Store)
	}
	if (cfg.AdminUser == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("WARZONE_ADMIN_USER and WARZONE_ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

// HasAdmin reports whether an operator account is configured.
func (c Config) HasAdmin() bool { return c.AdminUser != "" }
