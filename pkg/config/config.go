package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for chemmd-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// BasePath is the directory holding dataset directories. Dataset names
	// from requests are resolved below it.
	BasePath string `yaml:"base_path" env:"CHEMMD_BASE_PATH" env-default:""`

	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`

	// DatasetQueryParam is the query parameter naming the dataset in export requests.
	DatasetQueryParam string `yaml:"dataset_query_param" env:"DATASET_QUERY_PARAM" env-default:"dataset"`

	// SessionSecret signs the session cookie that remembers the last dataset.
	// Any passphrase works; it is hashed into a key.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ExportConfig holds export defaults applied to every dataset.
type ExportConfig struct {
	// GroupsFile is the query group file name inside a dataset directory.
	GroupsFile string `yaml:"groups_file" env:"GROUPS_FILE" env-default:"gq.json"`

	// ApplyStoichiometry scales matches whose factor filters name one of
	// StoichiometryUnits by the matched species' stoichiometry.
	ApplyStoichiometry bool     `yaml:"apply_stoichiometry" env:"APPLY_STOICHIOMETRY" env-default:"false"`
	StoichiometryUnits []string `yaml:"stoichiometry_units" env:"STOICHIOMETRY_UNITS" env-default:"Molar" env-separator:","`
}

// configFile is read from the working directory when present.
const configFile = "config.yaml"

// Load reads configuration from config.yaml with environment variable overrides.
// Without config.yaml only the environment and defaults are used.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(configFile); err == nil {
		if err := cleanenv.ReadConfig(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config.yaml: %w", err)
	}

	cfg.Export.StoichiometryUnits = trimAll(cfg.Export.StoichiometryUnits)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks values cleanenv cannot check on its own.
func (c *Config) Validate() error {
	if c.BasePath != "" {
		info, err := os.Stat(c.BasePath)
		if err != nil {
			return fmt.Errorf("base path does not exist: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("base path %q is not a directory", c.BasePath)
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", c.Logging.Format)
	}

	if strings.TrimSpace(c.DatasetQueryParam) == "" {
		return fmt.Errorf("dataset_query_param must not be empty")
	}
	if strings.TrimSpace(c.Export.GroupsFile) == "" {
		return fmt.Errorf("groups_file must not be empty")
	}

	return nil
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return ResolveBindAddrForDocker(c.BindAddr) + ":" + c.Port
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
