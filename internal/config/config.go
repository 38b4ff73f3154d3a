package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/cachesweep/internal/platform"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/security"
)

// Environment variables read by ApplyEnv
const (
	EnvConcurrency = "CACHESWEEP_CONCURRENCY"
	EnvLogLevel    = "CACHESWEEP_LOG_LEVEL"
	EnvDryRun      = "CACHESWEEP_DRY_RUN"
	EnvOutput      = "CACHESWEEP_OUTPUT"
)

// Output formats
const (
	OutputSummary = "summary"
	OutputTable   = "table"
	OutputJSON    = "json"
	OutputYAML    = "yaml"
)

// Config represents the application configuration
type Config struct {
	Concurrency        int          `yaml:"concurrency"` // 0 = twice the logical CPUs
	ExcludePatterns    []string     `yaml:"exclude_patterns"`
	ProtectedPaths     []string     `yaml:"protected_paths"`
	DryRun             bool         `yaml:"dry_run"`
	Verbose            bool         `yaml:"verbose"`
	LogLevel           string       `yaml:"log_level"`
	LogFile            string       `yaml:"log_file,omitempty"`
	Output             string       `yaml:"output"`
	DeleteWorkers      int          `yaml:"delete_workers"`
	DeleteRetries      int          `yaml:"delete_retries"`
	DisabledCategories []string     `yaml:"disabled_categories"`
	Rules              []rules.Rule `yaml:"rules,omitempty"`
}

// OutputFormats returns every supported report format
func OutputFormats() []string {
	return []string{OutputSummary, OutputTable, OutputJSON, OutputYAML}
}

// Load loads configuration from a file. Keys missing from the file keep
// their default values.
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0")
	}
	if c.DeleteWorkers < 0 {
		return fmt.Errorf("delete workers must be >= 0")
	}
	if c.DeleteRetries < 0 {
		return fmt.Errorf("delete retries must be >= 0")
	}

	// Validate exclude patterns (glob syntax)
	for _, pattern := range c.ExcludePatterns {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	// Validate protected paths are absolute
	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	if c.Output != "" && !validOutput(c.Output) {
		return fmt.Errorf("unknown output format %q (want one of %s)",
			c.Output, strings.Join(OutputFormats(), ", "))
	}

	if _, err := c.Disabled(); err != nil {
		return err
	}

	for _, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func validOutput(format string) bool {
	for _, f := range OutputFormats() {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Disabled parses DisabledCategories
func (c *Config) Disabled() ([]rules.Category, error) {
	out := make([]rules.Category, 0, len(c.DisabledCategories))
	for _, name := range c.DisabledCategories {
		cat, err := rules.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("disabled categories: %w", err)
		}
		out = append(out, cat)
	}
	return out, nil
}

// RuleSet builds the effective rules: the defaults, then user rules, minus
// the disabled categories
func (c *Config) RuleSet() (*rules.Set, error) {
	set := rules.Default()
	if len(c.Rules) > 0 {
		var err error
		if set, err = set.With(c.Rules...); err != nil {
			return nil, fmt.Errorf("user rules: %w", err)
		}
	}

	disabled, err := c.Disabled()
	if err != nil {
		return nil, err
	}
	return set.Without(disabled...), nil
}

// ApplyEnv loads the given dotenv files, or ./.env when none are given, and
// overlays the CACHESWEEP_* variables. Missing dotenv files are ignored;
// variables already set in the environment win over the files.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvConcurrency)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		c.Concurrency = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDryRun)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDryRun, err)
		}
		c.DryRun = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutput)); v != "" {
		c.Output = strings.ToLower(v)
	}

	return c.Validate()
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	configDir, err := platform.GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cachesweep", "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(GetExampleConfig()), 0644); err != nil {
			return "", fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return configPath, nil
}
