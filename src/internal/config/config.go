// Package config loads the bookmeta YAML configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the variable that points at a config file.
const EnvConfig = "BOOKMETA_CONFIG"

// Config is the on-disk configuration. Missing keys keep their defaults.
type Config struct {
	Debug       bool     `yaml:"debug"`
	Enrich      bool     `yaml:"enrich"`
	DefaultTags []string `yaml:"default_tags"`
	HTTP        HTTP     `yaml:"http"`
	Jelu        Jelu     `yaml:"jelu"`
}

// HTTP tunes page retrieval and API calls.
type HTTP struct {
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// Jelu holds the cataloging server address and credentials. A token is
// preferred over username and password.
type Jelu struct {
	URL          string `yaml:"url"`
	APIToken     string `yaml:"api_token"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	AddToLibrary bool   `yaml:"add_to_library"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Enrich: true,
		HTTP:   HTTP{Timeout: 12 * time.Second, RequestsPerSecond: 1},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/bookmeta/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "bookmeta", "config.yaml")
}

// Resolve picks the config path: the explicit flag value, then
// $BOOKMETA_CONFIG, then DefaultPath.
func Resolve(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return getEnv(EnvConfig, DefaultPath())
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: invalid YAML in %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = Default().HTTP.Timeout
	}
	if cfg.HTTP.RequestsPerSecond < 0 {
		cfg.HTTP.RequestsPerSecond = 0
	}
	cfg.Jelu.URL = strings.TrimRight(strings.TrimSpace(cfg.Jelu.URL), "/")
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Jelu.URL = getEnv("BOOKMETA_JELU_URL", c.Jelu.URL)
	c.Jelu.APIToken = getEnv("BOOKMETA_JELU_TOKEN", c.Jelu.APIToken)
	c.Jelu.Username = getEnv("BOOKMETA_JELU_USERNAME", c.Jelu.Username)
	c.Jelu.Password = getEnv("BOOKMETA_JELU_PASSWORD", c.Jelu.Password)
	if v, err := strconv.ParseBool(getEnv("BOOKMETA_DEBUG", "")); err == nil {
		c.Debug = v
	}
}

// getEnv returns the environment value for key or def if unset.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
