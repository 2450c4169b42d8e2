// Package config loads service settings from archparse.yml, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of one archparse process.
type Config struct {
	Env          string   `yaml:"env,omitempty"`
	ListenAddr   string   `yaml:"listenAddr,omitempty"`
	LogLevel     string   `yaml:"logLevel,omitempty"`
	Workers      int      `yaml:"workers,omitempty"`
	QueueSize    int      `yaml:"queueSize,omitempty"`
	TextLimit    int      `yaml:"textLimit,omitempty"`
	StrictSyntax bool     `yaml:"strictSyntax,omitempty"`
	ServeMCP     *bool    `yaml:"serveMCP,omitempty"`
	ExcludeDirs  []string `yaml:"excludeDirs,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	serveMCP := true
	return &Config{
		Env:        "development",
		ListenAddr: ":50051",
		LogLevel:   "info",
		Workers:    runtime.NumCPU(),
		QueueSize:  128,
		TextLimit:  256,
		ServeMCP:   &serveMCP,
	}
}

// MCPEnabled reports whether the MCP endpoint is mounted next to the RPC
// service.
func (c *Config) MCPEnabled() bool {
	return c.ServeMCP == nil || *c.ServeMCP
}

// Load reads dir/.env into the environment (existing variables win), then
// archparse.yml or archparse.yaml from dir over the defaults, then applies
// environment overrides. Missing files are not an error.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	for _, name := range []string{"archparse.yml", "archparse.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		break
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("GRPC_PORT"); v != "" {
		c.ListenAddr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("ARCHPARSE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"ARCHPARSE_WORKERS", &c.Workers},
		{"ARCHPARSE_QUEUE_SIZE", &c.QueueSize},
		{"ARCHPARSE_TEXT_LIMIT", &c.TextLimit},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("ARCHPARSE_STRICT_SYNTAX"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ARCHPARSE_STRICT_SYNTAX: %w", err)
		}
		c.StrictSyntax = b
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("queueSize must be positive, got %d", c.QueueSize))
	}
	if c.TextLimit < 0 {
		errs = append(errs, fmt.Errorf("textLimit must not be negative, got %d", c.TextLimit))
	}
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listenAddr is required"))
	}
	return errors.Join(errs...)
}
