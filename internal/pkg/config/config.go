// Package config loads the settings of the netdef tool itself. Network
// definitions are read by the netdef package, not here.
package config

import (
	"fmt"
	"os"
	"strings"

	"golang-netdef/internal/pkg/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding settings, for
// example NETDEF_LOGGING_LEVEL or NETDEF_ROOT.
const EnvPrefix = "NETDEF"

// Config represents the tool settings
type Config struct {
	Logging logging.LogConfig `mapstructure:"logging"`

	// Root is prepended to every configuration directory.
	Root string `mapstructure:"root"`

	// Directories are scanned in order, relative to Root.
	Directories []string `mapstructure:"directories"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("root", "/")
	v.SetDefault("directories", []string{"lib/netplan", "etc/netplan", "run/netplan"})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load merges environment variables, the YAML file at configPath and the
// defaults, highest precedence first. An empty path skips the file.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: invalid level '%s'", c.Logging.Level)
	}
	if !logging.IsValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging: invalid format '%s', must be one of json, text, simple, compact", c.Logging.Format)
	}

	if c.Root == "" {
		return fmt.Errorf("root directory must not be empty")
	}
	if len(c.Directories) == 0 {
		return fmt.Errorf("no configuration directories configured")
	}
	for _, dir := range c.Directories {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("configuration directory names must not be empty")
		}
	}
	return nil
}
