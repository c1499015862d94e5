package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-deck/internal/models"
)

// Environment variables that override the config file
const (
	EnvConfig = "POCKET_DECK_CONFIG"
	EnvHome   = "POCKET_DECK_HOME"
	EnvTheme  = "POCKET_DECK_THEME"
	EnvPort   = "POCKET_DECK_PORT"
	EnvMinify = "POCKET_DECK_MINIFY"
)

const (
	defaultHost = "localhost"
	defaultPort = 8080
)

// ServerConfig is the HTTP API listen address
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the user configuration
type Config struct {
	Defaults  models.GenerationOptions `yaml:"defaults"`
	ThemeDirs []string                 `yaml:"themeDirs,omitempty"`
	Server    ServerConfig             `yaml:"server"`
	OutputDir string                   `yaml:"outputDir,omitempty"`
	Verbose   bool                     `yaml:"verbose,omitempty"`

	path string
}

// BaseDir returns the pocket-deck home directory, ~/.pocket-deck unless
// POCKET_DECK_HOME is set
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pocket-deck"), nil
}

// DefaultPath returns the config file location
func DefaultPath() (string, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return path, nil
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Server:    ServerConfig{Host: defaultHost, Port: defaultPort},
		OutputDir: ".",
	}
	if base, err := BaseDir(); err == nil {
		cfg.ThemeDirs = []string{filepath.Join(base, "themes")}
	}
	return cfg
}

// Load reads the config at path, or at DefaultPath when path is empty. A
// missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes the config back to its path
func (c *Config) Save() error {
	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Init writes a default config file unless one already exists
func Init(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	if _, err := os.Stat(cfg.path); err == nil {
		return cfg, false, nil
	}
	for _, dir := range cfg.ThemeDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, false, fmt.Errorf("failed to create theme directory: %w", err)
		}
	}
	if err := cfg.Save(); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Addr returns the server listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// YAML renders the effective configuration
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Config) applyEnv() {
	c.Defaults.Theme = envOr(EnvTheme, c.Defaults.Theme)

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			c.Server.Port = port
		} else {
			log.Printf("[CONFIG] ignoring invalid %s=%q", EnvPort, v)
		}
	}
	if v := os.Getenv(EnvMinify); v != "" {
		if minify, err := strconv.ParseBool(v); err == nil {
			c.Defaults.Minify = models.Bool(minify)
		} else {
			log.Printf("[CONFIG] ignoring invalid %s=%q", EnvMinify, v)
		}
	}
}

func (c *Config) normalize() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// envOr returns the environment value for key, or fallback when unset
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
