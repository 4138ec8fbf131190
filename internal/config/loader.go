// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one `Config` from Defaults() and three layers (highest
precedence last):

  1. Optional `.env` file, GUACENV_ENV_FILE or /etc/guacenv/guacenv.env,
     then ./.env.  Values land in the process environment, so a .env file
     can also carry the Guacamole variables (MYSQL_HOSTNAME, ...).  Variables
     already set win.
  2. Optional YAML file, GUACENV_CONFIG or /etc/guacenv/guacenv.yaml.
  3. Environment variables prefixed `GUACENV_`, where `__` maps to "."
     (e.g., `GUACENV_PATHS__HOME -> paths.home`).

After merging, the tree is unmarshalled over the defaults and validated.

Instrumentation
---------------
  - DEBUG spans for each layer, ERROR spans for parse and validation failures.
  - Logs use the global sugared logger (`zap.S()`); the CLI installs a
    console logger before calling Load so early problems are visible.
*/
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	EnvPrefix      = "GUACENV_"
	defaultEnvFile = "/etc/guacenv/guacenv.env"
	defaultYAML    = "/etc/guacenv/guacenv.yaml"
)

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load resolves the layer files from the environment and calls LoadFrom.
func Load() (*Config, error) {
	envFile := os.Getenv(EnvPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	yamlFile := os.Getenv(EnvPrefix + "CONFIG")
	if yamlFile == "" {
		yamlFile = defaultYAML
	}
	return LoadFrom(envFile, yamlFile)
}

// LoadFrom reads the given .env and YAML files (either may be absent),
// overlays GUACENV_ variables, and validates the result.
func LoadFrom(envFile, yamlFile string) (*Config, error) {
	// .env (optional, no error if missing)
	if err := godotenv.Load(envFile); err == nil {
		zap.S().Debugw("env file loaded", "file", envFile)
	} else if err := godotenv.Load(); err == nil {
		zap.S().Debugw("env file loaded", "file", ".env")
	}

	k := koanf.New(".")

	if yamlFile != "" {
		if _, err := os.Stat(yamlFile); err == nil {
			if err := k.Load(file.Provider(yamlFile), yaml.Parser()); err != nil {
				zap.S().Errorw("config yaml load failed", "file", yamlFile, "err", err)
				return nil, err
			}
			zap.S().Debugw("config yaml loaded", "file", yamlFile)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// GUACENV_PATHS__HOME -> paths.home; empty values keep the lower layers.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, val string) (string, interface{}) {
		if val == "" {
			return "", nil
		}
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "__", ".")), val
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Debugw("config loaded",
		"home", cfg.Paths.Home,
		"source", cfg.Paths.Source,
		"vault", cfg.Vault.Addr != "",
		"verify_database", cfg.Verify.Database,
	)
	return &cfg, nil
}
