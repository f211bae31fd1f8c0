// Package config loads the f2fguard YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/f2fguard/internal/logger"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// DefaultConfigFile is looked up in the working directory when --config is not set.
const DefaultConfigFile = ".f2fguard.yaml"

// DefaultReportsDir is where check results are stored.
const DefaultReportsDir = ".f2fguard-reports"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config represents the application configuration.
type Config struct {
	Validator m.ValidatorNaming `yaml:"validator"`
	FailFast  bool              `yaml:"fail_fast"`
	Parallel  int               `yaml:"parallel"`
	Exclude   []string          `yaml:"exclude"`
	Reports   string            `yaml:"reports"`
	Log       LogConfig         `yaml:"log"`
}

// Manager interface provides configuration management functionality.
type Manager interface {
	LoadConfig(configPath string) (*Config, error)
	DefaultConfig() *Config
}

type realManager struct{}

// NewManager creates a new Manager instance.
func NewManager() Manager {
	return &realManager{}
}

// LoadConfig loads configuration from the specified file path. Keys absent
// from the file keep their default values.
func (c *realManager) LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := c.DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFileParse, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration.
func (c *realManager) DefaultConfig() *Config {
	return &Config{
		Validator: m.DefaultValidatorNaming(),
		Parallel:  1,
		Reports:   DefaultReportsDir,
		Log: LogConfig{
			Level:  string(logger.WarnLevel),
			Format: string(logger.FormatConsole),
		},
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if !identifier.MatchString(c.Validator.Namespace) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, c.Validator.Namespace)
	}

	if c.Validator.Prefix == "" {
		return ErrEmptyPrefix
	}

	if !identifier.MatchString(c.Validator.TargetKeyword) {
		return fmt.Errorf("%w: %q", ErrInvalidTargetKeyword, c.Validator.TargetKeyword)
	}

	for _, pattern := range c.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidExclude, pattern, err)
		}
	}

	if c.Parallel < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidParallel, c.Parallel)
	}

	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	if !logger.ValidFormat(c.Log.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}

	return nil
}

// LoadConfigWithFallback loads configuration from file, falling back to the
// defaults only when the file does not exist.
func LoadConfigWithFallback(configPath string) (*Config, error) {
	manager := NewManager()

	config, err := manager.LoadConfig(configPath)
	if errors.Is(err, ErrConfigFileNotFound) {
		return manager.DefaultConfig(), nil
	}

	return config, err
}
