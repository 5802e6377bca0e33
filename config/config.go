// ABOUTME: Runtime configuration for the console
// ABOUTME: Reads a JSON config file from the XDG config dir, then environment overrides
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const appName = "crmdesk"

// Config holds the connection settings for the CRM backend.
type Config struct {
	BaseURL        string `json:"base_url" env:"CRMDESK_URL" env-default:"http://localhost:5000"`
	Username       string `json:"username" env:"CRMDESK_USERNAME"`
	Password       string `json:"password" env:"CRMDESK_PASSWORD"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"CRMDESK_TIMEOUT" env-default:"15"`
	LogFile        string `json:"log_file" env:"CRMDESK_LOG"`
}

// Load reads configuration: .env file if present, then the config file,
// then environment variables (which win).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	path := ConfigPath()
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the location of the optional JSON config file.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.json")
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogPath returns where the TUI writes its log file. The terminal itself
// belongs to the TUI, so logs never go to stdout in that mode.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}
