// Package config loads runtime settings for the GhostVault CLI.
package config

import "github.com/dmitrijs2005/ghostvault/internal/filex"

// Config holds runtime settings for the GhostVault CLI.
//
// Fields:
//   - DataDir: directory holding per-user vault databases and the identity file.
//   - UserID: overrides the locally persisted anonymous identity (e.g., an
//     authenticated account id supplied by the hosting application).
type Config struct {
	DataDir string
	UserID  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = filex.DefaultDataDir()
	c.UserID = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
