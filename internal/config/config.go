package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/devblac/rpcformat/pkg/account"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the YAML configuration of the rpcformat CLI.
type Config struct {
	Version  int               `yaml:"version"`
	LogLevel string            `yaml:"log_level"`
	Aliases  map[string]string `yaml:"aliases"`
	Output   Output            `yaml:"output"`
}

type Output struct {
	Indent     *bool  `yaml:"indent,omitempty"`
	BigNumbers string `yaml:"big_numbers"`
}

const (
	BigNumbersHex     = "hex"
	BigNumbersDecimal = "decimal"
)

var envPattern = regexp.MustCompile(`\${([A-Za-z_][A-Za-z0-9_]*)}`)

// Default is used when no config file exists.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.Output.applyDefaults()
	return cfg
}

// Load reads, interpolates env vars, parses YAML, and validates.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	if err := loadDotEnv(path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	interpolated, err := interpolateEnv(string(raw))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func loadDotEnv(configPath string) error {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}

func interpolateEnv(input string) (string, error) {
	missing := []string{}
	out := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		missing = append(missing, name)
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing environment variables: %s", strings.Join(dedup(missing), ", "))
	}
	return out, nil
}

// Validate performs small, direct schema checks and fills defaults.
func (c *Config) Validate() error {
	if c.Version == 0 {
		return errors.New("version is required")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log_level: %s", c.LogLevel)
	}

	if _, err := account.NewTable(c.Aliases); err != nil {
		return fmt.Errorf("aliases: %w", err)
	}

	return c.Output.Validate()
}

func (o *Output) applyDefaults() {
	if o.Indent == nil {
		indent := true
		o.Indent = &indent
	}
	if o.BigNumbers == "" {
		o.BigNumbers = BigNumbersHex
	}
}

func (o *Output) Validate() error {
	o.applyDefaults()
	switch strings.ToLower(o.BigNumbers) {
	case BigNumbersHex, BigNumbersDecimal:
		o.BigNumbers = strings.ToLower(o.BigNumbers)
	default:
		return fmt.Errorf("output.big_numbers must be %q or %q, got %q", BigNumbersHex, BigNumbersDecimal, o.BigNumbers)
	}
	return nil
}

// Resolver builds the account resolver described by the aliases table.
func (c *Config) Resolver() (account.Resolver, error) {
	table, err := account.NewTable(c.Aliases)
	if err != nil {
		return nil, fmt.Errorf("aliases: %w", err)
	}
	return account.Default(table), nil
}

func dedup(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
