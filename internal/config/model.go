// internal/config/model.go
//
// Typed configuration model for guacenv itself.
//
// Context
// -------
// These structs hold the tool's own settings: where the generated home and
// the shipped archives live, logging, Vault access, metrics, and the
// optional database probe.  They are NOT the Guacamole variables
// (MYSQL_HOSTNAME and friends); those are read straight from the
// environment by internal/secret so the container contract stays the one
// operators already know.
//
// Notes
// -----
//   - Struct tags use `koanf:"..."`; koanf ignores `yaml` tags.
//   - Defaults() fills every field; loaded layers only override.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Paths locates the generated home and the archive source tree.
type Paths struct {
	Home   string `koanf:"home"   validate:"required"`
	Source string `koanf:"source" validate:"required"`
}

// Log controls the zap logger.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Vault enables vault: references when Addr or VAULT_ADDR is set.  An
// empty Token leaves VAULT_TOKEN to the Vault SDK.
type Vault struct {
	Addr     string        `koanf:"addr"      validate:"omitempty,url"`
	Token    string        `koanf:"token"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"min=0"`
	Timeout  time.Duration `koanf:"timeout"   validate:"min=0"`
}

// Enabled reports whether vault: references should be resolved.
func (v Vault) Enabled() bool {
	return v.Addr != "" || os.Getenv("VAULT_ADDR") != ""
}

// Metrics writes a Prometheus textfile when Textfile is set.
type Metrics struct {
	Textfile string `koanf:"textfile"`
}

// Verify controls the post-association connectivity probe.
type Verify struct {
	Database bool          `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Config is the aggregate returned by Load().
type Config struct {
	Paths   Paths   `koanf:"paths"`
	Log     Log     `koanf:"log"`
	Vault   Vault   `koanf:"vault"`
	Metrics Metrics `koanf:"metrics"`
	Verify  Verify  `koanf:"verify"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "/root"
	}
	return Config{
		Paths: Paths{
			Home:   filepath.Join(home, ".guacamole"),
			Source: "/opt/guacamole",
		},
		Log:    Log{Level: "info"},
		Vault:  Vault{CacheTTL: time.Minute, Timeout: 10 * time.Second},
		Verify: Verify{Timeout: 10 * time.Second},
	}
}
